package parser

// Parser yields framework lifecycle events one at a time
type Parser interface {
	// Next returns the next event, or io.EOF when the stream is exhausted
	Next() (Event, error)
}
