package models

// Content-type UIDs. These identify a collection to the admin content manager
// and to response interceptors; they are matched exactly, never by substring.
const (
	PendingBusinessUID   = "api::pending-business.pending-business"
	ContactSubmissionUID = "api::contact-submission.contact-submission"
	CategoryUID          = "api::category.category"
	ZoneUID              = "api::zone.zone"
	BusinessPlanUID      = "api::business-plan.business-plan"
	BusinessUID          = "api::business.business"
	OfferUID             = "api::offer.offer"
	AdUID                = "api::ad.ad"
)
