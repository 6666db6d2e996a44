package domain

import "strconv"

// Product is a single catalog entry from the storefront's product feed.
// Every field except Variants/Images may be legitimately absent.
type Product struct {
	ID       *int64           `json:"id"`
	Title    string           `json:"title,omitempty"`
	Handle   string           `json:"handle,omitempty"`
	Variants []map[string]any `json:"variants,omitempty"`
	Images   []string         `json:"images,omitempty"`
}

// IdentityKey returns the deduplication key for a product:
// handle, falling back to title, falling back to the numeric id.
func (p Product) IdentityKey() string {
	if p.Handle != "" {
		return p.Handle
	}
	if p.Title != "" {
		return p.Title
	}
	if p.ID != nil {
		return strconv.FormatInt(*p.ID, 10)
	}
	return ""
}

// ContactInfo holds contact signals scraped from the page.
// Addresses are reserved; no current heuristic populates them.
type ContactInfo struct {
	Emails    []string `json:"emails"`
	Phones    []string `json:"phones"`
	Addresses []string `json:"addresses"`
}

// PolicyLinks maps the three fixed policy categories to resolved absolute
// URLs. A nil entry means the category could not be resolved.
type PolicyLinks struct {
	PrivacyPolicy  *string `json:"privacy_policy"`
	RefundPolicy   *string `json:"refund_policy"`
	TermsOfService *string `json:"terms_of_service"`
}

// FaqEntry is one question/answer pair mined from the page.
type FaqEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Metadata carries derived counts computed after extraction settles.
type Metadata struct {
	FoundProductsCount int `json:"found_products_count"`
	FoundHeroCount     int `json:"found_hero_count"`
}

// BrandContext is the aggregate extraction result for one storefront.
// It is assembled once per request and never mutated afterwards.
type BrandContext struct {
	WebsiteURL     string            `json:"website_url"`
	StoreTitle     *string           `json:"store_title"`
	AboutText      *string           `json:"about_text"`
	Products       []Product         `json:"products"`
	HeroProducts   []Product         `json:"hero_products"`
	Policies       PolicyLinks       `json:"policies"`
	Faqs           []FaqEntry        `json:"faqs"`
	SocialHandles  map[string]string `json:"social_handles"`
	Contact        ContactInfo       `json:"contact"`
	ImportantLinks map[string]string `json:"important_links"`
	Metadata       Metadata          `json:"metadata"`
}
