package publishers

import (
	"encoding/json"

	"github.com/estecon/estecon-client/internal/domain"
)

func testEvent() Event {
	snap := domain.NewSnapshot("bills", "http://127.0.0.1:8000/v1/bills", json.RawMessage(`{"data":[]}`))
	return NewEvent("bills", "Bills", snap)
}
