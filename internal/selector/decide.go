package selector

import (
	"regexp"

	"github.com/bartekus/conform/internal/edition"
	"github.com/bartekus/conform/internal/metadata"
)

// Reason names the rule that decided a test.
type Reason string

const (
	ReasonNoMetadata     Reason = "no-metadata"
	ReasonNoStrict       Reason = "no-strict"
	ReasonLegacyID       Reason = "legacy-id"
	ReasonOtherEditionID Reason = "other-edition-id"
	ReasonFeatureEdition Reason = "feature-edition"
	ReasonSpecID         Reason = "spec-id"
	ReasonDefault        Reason = "default"
)

// Reasons lists every reason in rule order.
func Reasons() []Reason {
	return []Reason{
		ReasonNoMetadata,
		ReasonNoStrict,
		ReasonLegacyID,
		ReasonOtherEditionID,
		ReasonFeatureEdition,
		ReasonSpecID,
		ReasonDefault,
	}
}

const flagNoStrict = "noStrict"

var editionIDRe = regexp.MustCompile(`^es\d+id$`)

// Decision is the verdict for one test.
type Decision struct {
	Include bool
	Reason  Reason
	Detail  string
}

// Decide applies the selection rules in priority order. The first rule that
// matches decides.
func Decide(md metadata.Metadata, c edition.Classifier) Decision {
	if md.IsEmpty() {
		return Decision{Reason: ReasonNoMetadata}
	}
	if md.HasFlag(flagNoStrict) {
		return Decision{Reason: ReasonNoStrict}
	}
	if md.Has(metadata.KeyES5ID) {
		return Decision{Include: true, Reason: ReasonLegacyID}
	}
	for _, k := range md.Keys() {
		if k != metadata.KeyES5ID && editionIDRe.MatchString(k) {
			return Decision{Reason: ReasonOtherEditionID, Detail: k}
		}
	}
	if md.Has(metadata.KeyFeatures) {
		if name, e, ok := c.ForeignFeature(md.Features); ok {
			return Decision{Reason: ReasonFeatureEdition, Detail: name + " is " + e.String()}
		}
	}
	if md.Has(metadata.KeyESID) && !c.SpecIDMatches(md.ESID) {
		return Decision{Reason: ReasonSpecID, Detail: md.ESID}
	}
	return Decision{Include: true, Reason: ReasonDefault}
}
