package kitchen

import (
	"encoding/json"
	"fmt"
	"io"

	"tapin/internal/logger"
)

// Printer renders fired orders delivered from kitchen.q onto a chit
// printer (or any writer).
type Printer struct {
	out io.Writer
	log *logger.Logger
}

func NewPrinter(out io.Writer, log *logger.Logger) *Printer {
	return &Printer{out: out, log: log.WithComponent("kitchen-printer")}
}

// Handle prints one delivery body. A body that is not a kitchen event
// is an error so the caller can dead-letter it; status events are
// skipped.
func (p *Printer) Handle(body []byte) error {
	var e Event
	if err := json.Unmarshal(body, &e); err != nil {
		return fmt.Errorf("decode kitchen event: %w", err)
	}
	if e.Type != EventFired {
		return nil
	}
	if e.Order.ID == "" {
		return fmt.Errorf("fired event without order")
	}

	if _, err := fmt.Fprintf(p.out, "%s\n\n", FormatChit(e.Order)); err != nil {
		return fmt.Errorf("print chit: %w", err)
	}

	p.log.Info("chit printed",
		"order_id", e.Order.ID,
		"number", e.Order.Number,
		"table_id", e.Order.TableID,
	)
	return nil
}
