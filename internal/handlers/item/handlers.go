// Package item regroupe les endpoints du catalogue : CRUD des articles
// et upload de leurs images vers MinIO.
package item

import (
	"velora_back_end/internal/store"
)

var items store.ItemStore

func Setup(s store.ItemStore) {
	items = s
}
