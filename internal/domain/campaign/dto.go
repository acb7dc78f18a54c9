package campaign

// DraftPatch is one operator edit. Nil fields are left alone.
type DraftPatch struct {
	Name              *string  `json:"name"`
	ProjectName       *string  `json:"project_name"`
	SalesOfferDetails *string  `json:"sales_offer_details"`
	Channel           *Channel `json:"nurturing_channel"`
}

func (p DraftPatch) Apply(d *Draft) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.ProjectName != nil {
		d.ProjectName = *p.ProjectName
	}
	if p.SalesOfferDetails != nil {
		d.SalesOfferDetails = *p.SalesOfferDetails
	}
	if p.Channel != nil {
		d.Channel = *p.Channel
	}
}

// CommitsQuery filters the commit journal listing.
type CommitsQuery struct {
	Outcome Outcome `form:"outcome" validate:"omitempty,oneof=nurtured partial failed"`
	Limit   int     `form:"limit" validate:"omitempty,min=1,max=200"`
}
