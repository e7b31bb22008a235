package backup

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/junhaoh/cashcount/internal/catalog"
	"github.com/junhaoh/cashcount/internal/model"
)

const cardHeader = "银行名称,卡种名称,尾号,颜色1(Hex),颜色2(Hex),地区(Code),本币返现率(%),外币返现率(%),本币上限,外币上限,餐饮加成(%),超市加成(%),出行加成(%),数码加成(%),其他加成(%),餐饮上限,超市上限,出行上限,数码上限,其他上限,还款日"

const cardColumns = 21

// CardsBackupFilename returns the standalone cards export filename for the
// given day, e.g. Cards_Backup_20250131.csv.
func CardsBackupFilename(now time.Time) string {
	return fmt.Sprintf("Cards_Backup_%s.csv", now.Format("20060102"))
}

// EncodeCards renders cards to the 21-column cards CSV. Rates are written as
// two-decimal percentages; a blank field means "not set", which is distinct
// from zero. Commas in bank and product names are replaced with their
// full-width form because this file is split on plain commas.
func EncodeCards(cards []*model.Card) string {
	var b strings.Builder
	b.WriteString(bom)
	b.WriteString(cardHeader)
	b.WriteString("\n")

	for _, card := range cards {
		fields := []string{
			strings.ReplaceAll(card.BankName, ",", "，"),
			strings.ReplaceAll(card.Type, ",", "，"),
			card.Suffix,
			card.ColorHexes[0],
			card.ColorHexes[1],
			card.IssueRegion.Code(),
			fmt.Sprintf("%.2f", card.DefaultRate*100),
			fmtOptionalRate(card.ForeignRate),
			fmtCap(card.LocalBaseCap),
			fmtCap(card.ForeignBaseCap),
		}
		for _, category := range catalog.Categories() {
			fields = append(fields, fmtCategoryRate(card.SpecialRates, category))
		}
		for _, category := range catalog.Categories() {
			fields = append(fields, fmtCategoryCap(card.CategoryCaps, category))
		}
		if card.RepaymentDay > 0 {
			fields = append(fields, strconv.Itoa(card.RepaymentDay))
		} else {
			fields = append(fields, "")
		}

		b.WriteString(strings.Join(fields, ","))
		b.WriteString("\n")
	}

	return b.String()
}

// DecodeCards parses the cards CSV into new card records with fresh IDs.
// Short or malformed rows are skipped. Blank rate fields stay unset; cap
// fields that are blank or zero both mean uncapped.
func DecodeCards(content string) []*model.Card {
	content = strings.TrimPrefix(content, bom)
	lines := strings.Split(content, "\n")

	var cards []*model.Card
	for i, line := range lines {
		if i == 0 {
			continue
		}
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		columns := splitLine(line)
		if len(columns) < cardColumns {
			slog.Debug("skipping short card row", "line", i, "columns", len(columns))
			continue
		}
		for j := range columns {
			columns[j] = strings.TrimSpace(cleanField(columns[j]))
		}

		card := &model.Card{
			ID:           uuid.NewString(),
			BankName:     columns[0],
			Type:         columns[1],
			Suffix:       columns[2],
			ColorHexes:   [2]string{columns[3], columns[4]},
			IssueRegion:  catalog.ParseRegion(columns[5]),
			SpecialRates: make(map[catalog.Category]float64),
			CategoryCaps: make(map[catalog.Category]float64),
			CapPeriod:    model.CapPeriodYearly,
		}

		if rate, err := strconv.ParseFloat(columns[6], 64); err == nil {
			card.DefaultRate = rate / 100
		}
		if columns[7] != "" {
			if rate, err := strconv.ParseFloat(columns[7], 64); err == nil {
				foreign := rate / 100
				card.ForeignRate = &foreign
			}
		}
		if cap, err := strconv.ParseFloat(columns[8], 64); err == nil {
			card.LocalBaseCap = cap
		}
		if cap, err := strconv.ParseFloat(columns[9], 64); err == nil {
			card.ForeignBaseCap = cap
		}

		for j, category := range catalog.Categories() {
			if rate, err := strconv.ParseFloat(columns[10+j], 64); err == nil && rate > 0 {
				card.SpecialRates[category] = rate / 100
			}
		}
		for j, category := range catalog.Categories() {
			if cap, err := strconv.ParseFloat(columns[15+j], 64); err == nil && cap > 0 {
				card.CategoryCaps[category] = cap
			}
		}

		if day, err := strconv.Atoi(columns[20]); err == nil && day >= 1 && day <= 31 {
			card.RepaymentDay = day
		}

		cards = append(cards, card)
	}

	return cards
}

func fmtOptionalRate(rate *float64) string {
	if rate == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *rate*100)
}

func fmtCategoryRate(rates map[catalog.Category]float64, category catalog.Category) string {
	rate, ok := rates[category]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%.2f", rate*100)
}

func fmtCap(cap float64) string {
	if cap <= 0 {
		return ""
	}
	return fmt.Sprintf("%.0f", cap)
}

func fmtCategoryCap(caps map[catalog.Category]float64, category catalog.Category) string {
	cap, ok := caps[category]
	if !ok || cap <= 0 {
		return ""
	}
	return fmt.Sprintf("%.0f", cap)
}
