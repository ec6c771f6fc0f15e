package domain

// Category and Size share the same shape: an id and a display name.
type Category struct {
	ID   string `dynamodbav:"id"   json:"id"`
	Name string `dynamodbav:"name" json:"name"`
}

type Size struct {
	ID   string `dynamodbav:"id"   json:"id"`
	Name string `dynamodbav:"name" json:"name"`
}

// SiteContact holds the storefront's social links and contact details.
type SiteContact struct {
	Facebook  string `dynamodbav:"facebook"  json:"facebook"  validate:"omitempty,url"`
	Twitter   string `dynamodbav:"twitter"   json:"twitter"   validate:"omitempty,url"`
	Instagram string `dynamodbav:"instagram" json:"instagram" validate:"omitempty,url"`
	TikTok    string `dynamodbav:"tiktok"    json:"tiktok"    validate:"omitempty,url"`
	Email     string `dynamodbav:"email"     json:"email"     validate:"omitempty,storeemail"`
	Phone     string `dynamodbav:"phone"     json:"phone"`
}

type NameRequest struct {
	Name string `json:"name" binding:"required"`
}

type FormOptions struct {
	Categories []Category `json:"categories"`
	Sizes      []Size     `json:"sizes"`
}
