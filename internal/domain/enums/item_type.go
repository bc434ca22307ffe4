package enums

type ItemType string

const (
	ItemTypePhoto  ItemType = "photo"
	ItemTypePrompt ItemType = "prompt"
)
