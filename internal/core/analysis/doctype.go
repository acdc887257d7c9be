package analysis

import "strings"

// GenericDocumentType is returned when no catalogue entry matches.
const GenericDocumentType = "Legal Document"

var documentTypes = RuleTable[string]{
	{Match: containsAny("non-disclosure", "nda", "confidential", "proprietary information"), Payload: "Non-Disclosure Agreement"},
	{Match: containsAny("employment", "employee", "employer", "job", "salary", "benefits"), Payload: "Employment Agreement"},
	{Match: containsAny("service", "services", "provider", "client", "deliverables"), Payload: "Service Agreement"},
	{Match: containsAny("purchase", "buyer", "seller", "goods", "merchandise"), Payload: "Purchase Agreement"},
	{Match: containsAny("license", "licensing", "intellectual property", "software", "patent"), Payload: "License Agreement"},
	{Match: containsAny("lease", "rent", "tenant", "landlord", "property"), Payload: "Lease Agreement"},
	{Match: containsAny("partnership", "partner", "joint venture", "collaboration"), Payload: "Partnership Agreement"},
	{Match: containsAny("terms of service", "terms and conditions", "user agreement", "website"), Payload: "Terms of Service"},
}

// ClassifyDocument labels text with the first document type whose keywords
// appear in it. Catalogue order decides ties.
func ClassifyDocument(text string) string {
	if label, ok := documentTypes.First(strings.ToLower(text)); ok {
		return label
	}
	return GenericDocumentType
}
