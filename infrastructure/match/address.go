package match

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/text/cases"
)

// foldCaser is a package-level Unicode case folder for performance.
// This avoids creating a new caser for each address normalization.
var foldCaser = cases.Fold()

// streetAbbrevs maps long street-type and directional forms to their USPS
// short forms. Both spellings of the same token normalize to one key, so
// "123 Main Street" and "123 Main St" compare equal.
var streetAbbrevs = map[string]string{
	"street": "st", "avenue": "ave", "boulevard": "blvd",
	"drive": "dr", "lane": "ln", "court": "ct", "circle": "cir",
	"place": "pl", "road": "rd", "terrace": "ter", "way": "wy",
	"trail": "trl", "parkway": "pkwy", "highway": "hwy",
	"north": "n", "south": "s", "east": "e", "west": "w",
	"northeast": "ne", "northwest": "nw", "southeast": "se", "southwest": "sw",
	"apartment": "apt", "unit": "unit", "suite": "ste", "#": "apt",
}

// addrPunct lists the punctuation stripped before tokenizing. The unit
// marker "#" is kept because it carries meaning (it expands to "apt").
const addrPunct = ".,'"

// NormalizeAddress canonicalizes a free-text postal address plus optional
// city/state/zip into a comparable key. The function is total: it never
// fails, and an address that does not parse structurally still yields a
// best-effort key. Two listings with equal keys are treated as the same
// property regardless of geo distance. An address with no street portion
// returns the empty key, which never matches anything; such listings can
// still cluster through the geo rule.
//
// The key has the fixed shape "street|city|STATE|zip5" with the street
// portion lower-cased, punctuation-stripped, abbreviation-expanded and
// whitespace-collapsed.
func NormalizeAddress(address, city, state, zip string) string {
	street := foldCaser.String(strings.TrimSpace(address))

	var b strings.Builder
	b.Grow(len(street))
	for _, r := range street {
		if !strings.ContainsRune(addrPunct, r) {
			b.WriteRune(r)
		}
	}

	tokens := strings.Fields(b.String())
	if len(tokens) == 0 {
		return ""
	}
	for i, tok := range tokens {
		if short, ok := streetAbbrevs[tok]; ok {
			tokens[i] = short
		}
	}

	zip = strings.TrimSpace(zip)
	if len(zip) > 5 {
		zip = zip[:5]
	}

	return strings.Join(tokens, " ") + "|" +
		foldCaser.String(strings.TrimSpace(city)) + "|" +
		strings.ToUpper(strings.TrimSpace(state)) + "|" +
		zip
}

// Fingerprint returns a short stable digest of a normalized address key,
// suitable as a compact dedup key in downstream stores.
func Fingerprint(normalizedAddress string) string {
	sum := sha256.Sum256([]byte(normalizedAddress))
	return hex.EncodeToString(sum[:])[:16]
}

// StreetPart returns the street portion of a normalized address key, i.e.
// everything before the first separator. Used by the optional street
// affinity check during geo matching.
func StreetPart(normalizedAddress string) string {
	if i := strings.IndexByte(normalizedAddress, '|'); i >= 0 {
		return normalizedAddress[:i]
	}
	return normalizedAddress
}
