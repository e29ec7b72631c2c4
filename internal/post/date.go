package post

import (
	"encoding/json"
	"fmt"

	"github.com/astroaura/astroblog/internal/astro"
)

// UnmarshalJSON accepts legacy zone-less dates; see astro.ParseDate.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	aux := struct {
		*plain
		Date string `json:"date"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	t, err := astro.ParseDate(aux.Date)
	if err != nil {
		return fmt.Errorf("post %q: %w", r.Slug, err)
	}
	r.Date = t
	return nil
}
