package report

// Row levels.
const (
	LevelChapter    = "chapter"
	LevelSubchapter = "subchapter"
	LevelFunctional = "functional"
	LevelEconomic   = "economic"
)

// Row is one node of a flattened breakdown. Ancestor codes are repeated on
// every row so the file can be filtered or pivoted without the tree.
type Row struct {
	Category       string  `csv:"account_category"`
	Level          string  `csv:"level"`
	Chapter        string  `csv:"chapter"`
	ChapterName    string  `csv:"chapter_name"`
	Subchapter     string  `csv:"subchapter"`
	SubchapterName string  `csv:"subchapter_name"`
	Functional     string  `csv:"functional_code"`
	FunctionalName string  `csv:"functional_name"`
	Economic       string  `csv:"economic_code"`
	EconomicName   string  `csv:"economic_name"`
	Amount         float64 `csv:"amount"`
	Share          float64 `csv:"share"`
}

var rowHeader = []interface{}{
	"account_category", "level",
	"chapter", "chapter_name",
	"subchapter", "subchapter_name",
	"functional_code", "functional_name",
	"economic_code", "economic_name",
	"amount", "share",
}

func (r Row) values() []interface{} {
	return []interface{}{
		r.Category, r.Level,
		r.Chapter, r.ChapterName,
		r.Subchapter, r.SubchapterName,
		r.Functional, r.FunctionalName,
		r.Economic, r.EconomicName,
		r.Amount, r.Share,
	}
}

// Flatten lists every node of b in tree order: each chapter, then its
// subchapters with their functionals, then its own functionals. Economics
// follow their functional.
func Flatten(b Breakdown) []Row {
	var rows []Row
	category := b.Category.String()
	for _, ch := range b.Chapters {
		base := Row{
			Category:    category,
			Chapter:     ch.Prefix,
			ChapterName: ch.Description,
		}
		chRow := base
		chRow.Level = LevelChapter
		chRow.Amount = ch.TotalAmount
		chRow.Share = ch.Share
		rows = append(rows, chRow)

		for _, sub := range ch.Subchapters {
			subBase := base
			subBase.Subchapter = sub.Code
			subBase.SubchapterName = sub.Name

			subRow := subBase
			subRow.Level = LevelSubchapter
			subRow.Amount = sub.TotalAmount
			subRow.Share = sub.Share
			rows = append(rows, subRow)
			rows = appendFunctionals(rows, subBase, sub.Functionals)
		}
		rows = appendFunctionals(rows, base, ch.Functionals)
	}
	return rows
}

func appendFunctionals(rows []Row, base Row, functionals []FunctionalView) []Row {
	for _, f := range functionals {
		fnBase := base
		fnBase.Functional = f.Code
		fnBase.FunctionalName = f.Name

		fnRow := fnBase
		fnRow.Level = LevelFunctional
		fnRow.Amount = f.TotalAmount
		fnRow.Share = f.Share
		rows = append(rows, fnRow)

		for _, e := range f.Economics {
			ecoRow := fnBase
			ecoRow.Level = LevelEconomic
			ecoRow.Economic = e.Code
			ecoRow.EconomicName = e.Name
			ecoRow.Amount = e.Amount
			ecoRow.Share = e.Share
			rows = append(rows, ecoRow)
		}
	}
	return rows
}
