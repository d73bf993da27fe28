package normalize

import "github.com/sells-group/outreach-recon/internal/model"

// aliasTable maps each canonical field to the accepted source column names,
// in priority order. A record that already carries the canonical key is left
// alone for that field; otherwise the first alias present wins.
type aliasTable map[string][]string

var sendAliases = aliasTable{
	model.FieldRecipientName:  {"Recipient Name", "Name", "To Name"},
	model.FieldSentDate:       {"Date", "Sent Date", "Sent At"},
	model.FieldRecipientEmail: {"recipient_email", "Email", "To Email"},
	model.FieldDomain:         {"domain", "Company Domain"},
}

var openAliases = aliasTable{
	model.FieldRecipientName: {"Recipient Name", "Name", "Recipient"},
	model.FieldSentDate:      {"Date", "Sent Date", "Sent Time"},
	model.FieldViews:         {"Opens", "views", "opens"},
	model.FieldClicks:        {"clicks", "Link Clicks"},
	model.FieldLastOpened:    {"Last Opened", "Last Open"},
}

var contactAliases = aliasTable{
	model.FieldEmail:      {"email", "Email Address", "Recipient Email"},
	model.FieldCompanyURL: {"company_url", "Website", "Company Website"},
}

// Required columns per record kind, checked after alias mapping.
var (
	sendRequired    = []string{model.FieldRecipientName, model.FieldSentDate, model.FieldRecipientEmail}
	openRequired    = []string{model.FieldRecipientName, model.FieldSentDate, model.FieldViews, model.FieldClicks}
	contactRequired = []string{model.FieldEmail}
)

// applyAliases copies the first matching alias value onto the canonical key.
// The canonical key, when already present, is never overwritten by a
// lower-priority alias. Source columns stay on the record as passthrough.
func applyAliases(rec model.Record, table aliasTable) {
	for canonical, aliases := range table {
		if _, ok := rec[canonical]; ok {
			continue
		}
		for _, alias := range aliases {
			if v, ok := rec[alias]; ok {
				rec[canonical] = v
				break
			}
		}
	}
}
