package domain

import "sort"

// StockRecord is one entry of a feed stock category.
// Value may be null in the feed, which counts as zero.
type StockRecord struct {
	Name  string `json:"name"`
	Value *int   `json:"value"`
}

// SeenRecord is one entry of the feed's lastSeen list.
// A null Seen marker means the feed no longer reports the item.
type SeenRecord struct {
	Name string  `json:"name"`
	Seen *string `json:"seen"`
}

// FeedDocument is the feed's full inventory report for one poll.
type FeedDocument struct {
	GearStock      []StockRecord `json:"gearStock"`
	SeedsStock     []StockRecord `json:"seedsStock"`
	CosmeticsStock []StockRecord `json:"cosmeticsStock"`
	EggStock       []StockRecord `json:"eggStock"`
	MerchantsStock []StockRecord `json:"merchantsStock"`
	EasterStock    []StockRecord `json:"easterStock"`
	NightStock     []StockRecord `json:"nightStock"`
	EventStock     []StockRecord `json:"eventStock"`
	LastSeen       []SeenRecord  `json:"lastSeen"`
}

// Categories returns all stock categories of the document.
func (d *FeedDocument) Categories() [][]StockRecord {
	return [][]StockRecord{
		d.GearStock,
		d.SeedsStock,
		d.CosmeticsStock,
		d.EggStock,
		d.MerchantsStock,
		d.EasterStock,
		d.NightStock,
		d.EventStock,
	}
}

// Snapshot maps item name to total quantity for one poll.
// It is rebuilt from scratch every cycle and never updated in place.
type Snapshot map[string]int

// BuildSnapshot builds a snapshot from a feed document. Duplicate names
// within a category are additive, and names repeating across categories
// are summed again.
func BuildSnapshot(doc *FeedDocument) Snapshot {
	snap := make(Snapshot)
	for _, category := range doc.Categories() {
		for _, record := range category {
			qty := 0
			if record.Value != nil {
				qty = *record.Value
			}
			snap[record.Name] += qty
		}
	}
	return snap
}

// InStock returns the names with a positive quantity, in ascending order.
func (s Snapshot) InStock() []string {
	var names []string
	for name, qty := range s {
		if qty > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
