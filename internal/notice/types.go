// Package notice extracts structured contract-amendment records
// ("extratos de aditivo") from gazette text blocks.
package notice

import "time"

// UnidentifiedBody is the issuing-body placeholder when the
// CONTRATANTE label cannot be located in a record block.
const UnidentifiedBody = "Não identificado"

// Record is one structured contract-amendment notice.
//
// Classification is derived solely from Subject and Value; it is set by
// the extractor and must be recomputed with Classify whenever either
// changes.
type Record struct {
	Date           time.Time
	IssuingBody    string
	Counterparty   string
	Value          float64 // never negative; 0 when absent or unparsable
	Subject        string
	Classification string
	Link           string
}
