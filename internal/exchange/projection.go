package exchange

// Row is one rendered exchange: the utterance, then either its answer or a
// typing indicator.
type Row struct {
	Ordinal   int
	Utterance string
	Answer    string
	HasAnswer bool
	Failed    bool
	Typing    bool
}

// Project maps exchanges to rows. It never modifies its input.
func Project(exchanges []Exchange) []Row {
	rows := make([]Row, 0, len(exchanges))
	for _, ex := range exchanges {
		row := Row{
			Ordinal:   ex.Ordinal,
			Utterance: ex.Utterance,
		}
		switch ex.Status {
		case StatusAnswered:
			row.Answer = ex.Answer
			row.HasAnswer = true
		case StatusFailed:
			row.Answer = ex.Answer
			row.HasAnswer = true
			row.Failed = true
		case StatusPending:
			row.Typing = true
		}
		rows = append(rows, row)
	}
	return rows
}
