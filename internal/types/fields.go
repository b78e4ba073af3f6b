package types

// Field names an editable team column. The store maps fields to SQL columns;
// the session validates values per field before they reach the store.
type Field string

const (
	FieldName       Field = "name"
	FieldWealth     Field = "wealth"
	FieldFoundYear  Field = "found_year"
	FieldLocation   Field = "location"
	FieldSupporters Field = "supporters"
	FieldStadium    Field = "stadium"
	FieldNickname   Field = "nickname"
	FieldLeague     Field = "league"
	FieldReputation Field = "reputation"
)

// Changes is a set of pending field edits for one team.
type Changes map[Field]any

// Clone returns an independent copy so callers can keep a snapshot across a
// save attempt.
func (c Changes) Clone() Changes {
	out := make(Changes, len(c))
	for f, v := range c {
		out[f] = v
	}
	return out
}

// TeamFields lists every editable team field in display order.
var TeamFields = []Field{
	FieldName,
	FieldWealth,
	FieldFoundYear,
	FieldLocation,
	FieldSupporters,
	FieldStadium,
	FieldNickname,
	FieldLeague,
	FieldReputation,
}

// NumericFields are the fields whose values must be non-negative integers.
var NumericFields = map[Field]bool{
	FieldWealth:     true,
	FieldSupporters: true,
	FieldReputation: true,
	FieldLeague:     true,
	FieldFoundYear:  true,
}

// Applied returns a copy of team with the changes folded in. Used by the UI
// to preview pending edits and by tests to assert round-trips.
func (c Changes) Applied(team Team) Team {
	for f, v := range c {
		switch f {
		case FieldName:
			team.Name = v.(string)
		case FieldWealth:
			team.Wealth = v.(int64)
		case FieldFoundYear:
			team.FoundYear = v.(int64)
		case FieldLocation:
			team.Location = v.(string)
		case FieldSupporters:
			team.SupporterCount = v.(int64)
		case FieldStadium:
			team.StadiumName = v.(string)
		case FieldNickname:
			team.Nickname = v.(string)
		case FieldLeague:
			team.LeagueID = v.(int64)
		case FieldReputation:
			team.Reputation = v.(int64)
		}
	}
	return team
}
