package models

// Setting keys.
const (
	SettingBeerPriceCents = "beerPriceCents"
)

// DefaultBeerPriceCents is used when the setting row is absent or unparsable.
const DefaultBeerPriceCents = int64(100)

type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}
