package maven

import (
	"fmt"
	"strconv"
	"strings"
)

// Restriction is one interval of a version range. Empty bounds are open.
type Restriction struct {
	Lower          string
	LowerInclusive bool
	Upper          string
	UpperInclusive bool
}

// VersionSpec is a parsed dependency <version> value.
//
// Exact is set for soft requirements ("1.2") and pinned ranges ("[1.2]");
// otherwise Ranges holds one or more restrictions. The zero value means no
// version was declared.
type VersionSpec struct {
	Exact  string
	Ranges []Restriction
}

// ParseVersionSpec parses a Maven version, a Maven range list
// ("[1.0,2.0)", "(,1.0],[1.2,)") or a comparator list (">=1.2,<2.0").
func ParseVersionSpec(s string) (VersionSpec, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return VersionSpec{}, nil
	case s[0] == '[' || s[0] == '(':
		return parseRanges(s)
	case strings.ContainsAny(s[:1], "<>=!~"):
		return parseComparators(s)
	case strings.ContainsAny(s, "[]()"):
		return VersionSpec{}, fmt.Errorf("invalid version spec %q", s)
	default:
		return VersionSpec{Exact: s}, nil
	}
}

func parseRanges(s string) (VersionSpec, error) {
	var spec VersionSpec
	rest := s
	for rest != "" {
		open := rest[0]
		if open != '[' && open != '(' {
			return VersionSpec{}, fmt.Errorf("invalid version range %q", s)
		}
		end := strings.IndexAny(rest, "])")
		if end < 0 {
			return VersionSpec{}, fmt.Errorf("unterminated version range %q", s)
		}
		body := rest[1:end]
		closer := rest[end]
		rest = strings.TrimSpace(rest[end+1:])
		if strings.HasPrefix(rest, ",") {
			rest = strings.TrimSpace(rest[1:])
			if rest == "" {
				return VersionSpec{}, fmt.Errorf("trailing comma in version range %q", s)
			}
		}

		lower, upper, hasComma := strings.Cut(body, ",")
		lower, upper = strings.TrimSpace(lower), strings.TrimSpace(upper)
		if strings.Contains(upper, ",") {
			return VersionSpec{}, fmt.Errorf("too many bounds in version range %q", s)
		}
		if !hasComma {
			// "[1.2]" pins a single version.
			if open != '[' || closer != ']' || lower == "" {
				return VersionSpec{}, fmt.Errorf("invalid pinned version %q", s)
			}
			if len(spec.Ranges) == 0 && rest == "" {
				return VersionSpec{Exact: lower}, nil
			}
			spec.Ranges = append(spec.Ranges, Restriction{Lower: lower, LowerInclusive: true, Upper: lower, UpperInclusive: true})
			continue
		}
		spec.Ranges = append(spec.Ranges, Restriction{
			Lower:          lower,
			LowerInclusive: open == '[',
			Upper:          upper,
			UpperInclusive: closer == ']',
		})
	}
	return spec, nil
}

// comparators are matched longest first.
var comparators = []string{">=", "<=", "==", ">", "<", "="}

func parseComparators(s string) (VersionSpec, error) {
	var r Restriction
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		var op string
		for _, candidate := range comparators {
			if strings.HasPrefix(part, candidate) {
				op = candidate
				break
			}
		}
		v := strings.TrimSpace(part[len(op):])
		if v == "" {
			return VersionSpec{}, fmt.Errorf("missing version in %q", s)
		}
		switch op {
		case ">=", ">":
			if r.Lower == "" || CompareVersions(v, r.Lower) < 0 {
				r.Lower, r.LowerInclusive = v, op == ">="
			}
		case "<=":
			r.Upper, r.UpperInclusive = v, true
		case "<":
			r.Upper, r.UpperInclusive = v, false
		case "=", "==":
			return VersionSpec{Exact: v}, nil
		default:
			return VersionSpec{}, fmt.Errorf("unsupported operator %q in %q", op, s)
		}
	}
	return VersionSpec{Ranges: []Restriction{r}}, nil
}

// LowerBound returns the single version the spec collapses to: the exact
// version if pinned, otherwise the lowest declared lower bound across all
// ranges, inclusive or not. ok is false when no lower bound exists.
func (v VersionSpec) LowerBound() (version string, ok bool) {
	if v.Exact != "" {
		return v.Exact, true
	}
	for _, r := range v.Ranges {
		if r.Lower == "" {
			continue
		}
		if version == "" || CompareVersions(r.Lower, version) < 0 {
			version = r.Lower
		}
	}
	return version, version != ""
}

// CompareVersions orders two Maven versions segment by segment. Numeric
// segments compare numerically, qualifiers sort before numbers, and missing
// segments count as zero ("1" == "1.0").
func CompareVersions(a, b string) int {
	as, bs := splitVersion(a), splitVersion(b)
	for i := 0; i < max(len(as), len(bs)); i++ {
		x, y := "0", "0"
		if i < len(as) {
			x = as[i]
		}
		if i < len(bs) {
			y = bs[i]
		}
		if c := compareSegment(x, y); c != 0 {
			return c
		}
	}
	return 0
}

func splitVersion(v string) []string {
	return strings.FieldsFunc(strings.ToLower(v), func(r rune) bool {
		return r == '.' || r == '-' || r == '_'
	})
}

func compareSegment(x, y string) int {
	xn, xerr := strconv.ParseUint(x, 10, 64)
	yn, yerr := strconv.ParseUint(y, 10, 64)
	switch {
	case xerr == nil && yerr == nil:
		switch {
		case xn < yn:
			return -1
		case xn > yn:
			return 1
		}
		return 0
	case xerr == nil:
		return 1
	case yerr == nil:
		return -1
	}
	return strings.Compare(x, y)
}
