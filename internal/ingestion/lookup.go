package ingestion

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/dennisdiepolder/monti/analytics/internal/types"
)

// queueKeywords maps filename keywords to queue names. Order matters: the
// first keyword found in the filename wins.
var queueKeywords = []struct {
	keyword string
	queue   string
}{
	{"suporte", "Suporte"},
	{"support", "Suporte"},
	{"tecnico", "Suporte"},
	{"comercial", "Comercial"},
	{"vendas", "Comercial"},
	{"sales", "Comercial"},
	{"financeiro", "Financeiro"},
	{"cobranca", "Financeiro"},
	{"billing", "Financeiro"},
	{"retencao", "Retenção"},
	{"retention", "Retenção"},
	{"ouvidoria", "Ouvidoria"},
	{"sac", "SAC"},
}

// QueueFromFilename derives a queue name from keywords in an export's filename
func QueueFromFilename(filename string) string {
	name := foldHeader(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if name == "" {
		return types.UnknownQueue
	}
	for _, kw := range queueKeywords {
		if headerMatches(name, kw.keyword) || (len(kw.keyword) > 3 && strings.Contains(name, kw.keyword)) {
			return kw.queue
		}
	}
	return types.UnknownQueue
}

var monthTokens = map[string]int{
	"janeiro": 1, "january": 1, "jan": 1,
	"fevereiro": 2, "february": 2, "fev": 2, "feb": 2,
	"marco": 3, "march": 3, "mar": 3,
	"abril": 4, "april": 4, "abr": 4, "apr": 4,
	"maio": 5, "may": 5, "mai": 5,
	"junho": 6, "june": 6, "jun": 6,
	"julho": 7, "july": 7, "jul": 7,
	"agosto": 8, "august": 8, "ago": 8, "aug": 8,
	"setembro": 9, "september": 9, "set": 9, "sep": 9,
	"outubro": 10, "october": 10, "out": 10, "oct": 10,
	"novembro": 11, "november": 11, "nov": 11,
	"dezembro": 12, "december": 12, "dez": 12, "dec": 12,
}

var (
	yearPattern      = regexp.MustCompile(`^(19|20)\d{2}$`)
	yearMonthPattern = regexp.MustCompile(`(20\d{2})[-_. ](0[1-9]|1[0-2])`)
)

// PeriodFromFilename derives a "YYYY-MM" period from an export's filename,
// e.g. "relatorio_janeiro_2024.xlsx" or "calls-2024-01.xlsx". It returns ""
// when the filename does not name both a month and a year.
func PeriodFromFilename(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if m := yearMonthPattern.FindStringSubmatch(base); m != nil {
		return m[1] + "-" + m[2]
	}

	var year string
	month := 0
	for _, tok := range strings.Fields(foldHeader(base)) {
		if yearPattern.MatchString(tok) && year == "" {
			year = tok
			continue
		}
		if m, ok := monthTokens[tok]; ok && month == 0 {
			month = m
		}
	}
	if year == "" || month == 0 {
		return ""
	}
	return fmt.Sprintf("%s-%02d", year, month)
}

// areaCodeRegions maps Brazilian two-digit area codes to their state
var areaCodeRegions = map[string]string{
	"11": "SP", "12": "SP", "13": "SP", "14": "SP", "15": "SP", "16": "SP", "17": "SP", "18": "SP", "19": "SP",
	"21": "RJ", "22": "RJ", "24": "RJ",
	"27": "ES", "28": "ES",
	"31": "MG", "32": "MG", "33": "MG", "34": "MG", "35": "MG", "37": "MG", "38": "MG",
	"41": "PR", "42": "PR", "43": "PR", "44": "PR", "45": "PR", "46": "PR",
	"47": "SC", "48": "SC", "49": "SC",
	"51": "RS", "53": "RS", "54": "RS", "55": "RS",
	"61": "DF",
	"62": "GO", "64": "GO",
	"63": "TO",
	"65": "MT", "66": "MT",
	"67": "MS",
	"68": "AC",
	"69": "RO",
	"71": "BA", "73": "BA", "74": "BA", "75": "BA", "77": "BA",
	"79": "SE",
	"81": "PE", "87": "PE",
	"82": "AL",
	"83": "PB",
	"84": "RN",
	"85": "CE", "88": "CE",
	"86": "PI", "89": "PI",
	"91": "PA", "93": "PA", "94": "PA",
	"92": "AM", "97": "AM",
	"95": "RR",
	"96": "AP",
	"98": "MA", "99": "MA",
}

// RegionFromPhone derives a region from the area code of a phone number.
// Non-digits, the "55" country code and trunk zeros are stripped first;
// numbers too short to carry an area code map to UnknownRegion.
func RegionFromPhone(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)

	if len(digits) >= 12 && strings.HasPrefix(digits, "55") {
		digits = digits[2:]
	}
	digits = strings.TrimLeft(digits, "0")

	if len(digits) < 10 {
		return types.UnknownRegion
	}
	if region, ok := areaCodeRegions[digits[:2]]; ok {
		return region
	}
	return types.UnknownRegion
}
