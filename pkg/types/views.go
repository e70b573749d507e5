package types

// CollectionView is a read-only copy of a collection and its members in
// title order.
type CollectionView struct {
	Name    string   `json:"name"`
	Members []Record `json:"members"`
}

// Counts reports how many records and collections a store holds.
type Counts struct {
	Records     int `json:"records"`
	Collections int `json:"collections"`
}

// MembershipStats summarises how records are spread across collections.
type MembershipStats struct {
	Records          int `json:"records"`
	InAtLeastOne     int `json:"in_at_least_one"`
	InMoreThanOne    int `json:"in_more_than_one"`
	TotalMemberships int `json:"total_memberships"`
}
