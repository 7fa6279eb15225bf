package dto

import (
	"bytes"
	"encoding/json"
	"totaro-checkout/internal/payment"
)

// Amount accepts both 50000 and "50000" on the wire. The raw text is kept
// and normalized by Int64, so a bad value becomes a field error instead of
// a bind failure.
type Amount struct {
	Raw string
}

func NewAmount(v string) Amount {
	return Amount{Raw: v}
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		a.Raw = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		a.Raw = s
		return nil
	}
	a.Raw = string(b)
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if v, err := a.Int64(); err == nil {
		return json.Marshal(v)
	}
	return json.Marshal(a.Raw)
}

func (a Amount) Empty() bool {
	return a.Raw == ""
}

func (a Amount) Int64() (int64, error) {
	return payment.ParseAmount(a.Raw)
}
