package domain

// ProductCard is a transient candidate for a featured product, extracted
// from a DOM element that looks like a product link. Not persisted.
type ProductCard struct {
	Href string
	Text string
}

// PageSignals is the bundle of raw signals the page analyzer pulls from a
// storefront homepage. Absent signals are zero values, never errors.
type PageSignals struct {
	Title        string
	Links        map[string]string // visible anchor text -> href, last write wins
	ProductCards []ProductCard
	Emails       []string
	Phones       []string
	AboutText    string
	Social       map[string]string // platform -> href
}
