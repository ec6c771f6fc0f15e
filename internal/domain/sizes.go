package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// SizeCount is one size label and its stock count.
type SizeCount struct {
	Label string
	Count int
}

// SizeStock maps size labels to stock counts in a stable order.
// The zero value is an empty mapping.
type SizeStock []SizeCount

func (s SizeStock) index(label string) int {
	for i, sc := range s {
		if sc.Label == label {
			return i
		}
	}
	return -1
}

func (s SizeStock) Has(label string) bool {
	return s.index(label) >= 0
}

// Get returns the count for label and whether the label exists.
func (s SizeStock) Get(label string) (int, bool) {
	i := s.index(label)
	if i < 0 {
		return 0, false
	}
	return s[i].Count, true
}

// Set overwrites the count of an existing label or appends a new one.
func (s *SizeStock) Set(label string, count int) {
	if i := s.index(label); i >= 0 {
		(*s)[i].Count = count
		return
	}
	*s = append(*s, SizeCount{Label: label, Count: count})
}

// Add applies delta to an existing label. It reports false when the label is absent.
func (s SizeStock) Add(label string, delta int) bool {
	i := s.index(label)
	if i < 0 {
		return false
	}
	s[i].Count += delta
	return true
}

func (s *SizeStock) Delete(label string) {
	i := s.index(label)
	if i < 0 {
		return
	}
	*s = append((*s)[:i], (*s)[i+1:]...)
}

func (s SizeStock) Labels() []string {
	labels := make([]string, len(s))
	for i, sc := range s {
		labels[i] = sc.Label
	}
	return labels
}

func (s SizeStock) Len() int { return len(s) }

// Total sums every count.
func (s SizeStock) Total() int {
	total := 0
	for _, sc := range s {
		total += sc.Count
	}
	return total
}

func (s SizeStock) Clone() SizeStock {
	if s == nil {
		return nil
	}
	out := make(SizeStock, len(s))
	copy(out, s)
	return out
}

// Equal compares labels, counts and order. A nil and an empty mapping are equal.
func (s SizeStock) Equal(other SizeStock) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Sorted returns a copy ordered by apparel rank, then numerically, then lexically.
func (s SizeStock) Sorted() SizeStock {
	out := s.Clone()
	sort.SliceStable(out, func(i, j int) bool {
		return lessSize(out[i].Label, out[j].Label)
	})
	return out
}

var apparelRank = map[string]int{
	"XXS": 1, "XS": 2, "S": 3, "M": 4, "L": 5, "XL": 6, "XXL": 7, "XXXL": 8,
}

func lessSize(a, b string) bool {
	ra, aok := apparelRank[strings.ToUpper(a)]
	rb, bok := apparelRank[strings.ToUpper(b)]
	switch {
	case aok && bok:
		return ra < rb
	case aok != bok:
		return aok
	}
	na, aerr := strconv.ParseFloat(a, 64)
	nb, berr := strconv.ParseFloat(b, 64)
	switch {
	case aerr == nil && berr == nil:
		return na < nb
	case (aerr == nil) != (berr == nil):
		return aerr == nil
	}
	return a < b
}

// MarshalJSON writes an object keyed by size label, preserving order.
func (s SizeStock) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sc := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sc.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(sc.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keyed by size label. Numeric strings are
// accepted and any other non-numeric value counts as zero.
func (s *SizeStock) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("sizes: expected object, got %v", tok)
	}

	out := SizeStock{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("sizes: unexpected key %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		out.Set(label, countFromJSON(raw))
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

func countFromJSON(raw json.RawMessage) int {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return ParseCount(text)
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return truncCount(n)
	}
	return 0
}

// ParseCount converts a loosely typed stock value into an integer, yielding 0
// for anything non-numeric.
func ParseCount(text string) int {
	text = strings.TrimSpace(text)
	if n, err := strconv.Atoi(text); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return truncCount(f)
	}
	return 0
}

func truncCount(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

// MarshalDynamoDBAttributeValue stores the mapping as an M attribute of numbers.
func (s SizeStock) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	m := make(map[string]types.AttributeValue, len(s))
	for _, sc := range s {
		m[sc.Label] = &types.AttributeValueMemberN{Value: strconv.Itoa(sc.Count)}
	}
	return &types.AttributeValueMemberM{Value: m}, nil
}

// UnmarshalDynamoDBAttributeValue reads an M attribute. String counts are
// parsed, anything else non-numeric becomes 0.
func (s *SizeStock) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	switch v := av.(type) {
	case *types.AttributeValueMemberNULL:
		*s = nil
		return nil
	case *types.AttributeValueMemberM:
		out := make(SizeStock, 0, len(v.Value))
		for label, raw := range v.Value {
			out = append(out, SizeCount{Label: label, Count: countFromAttribute(raw)})
		}
		*s = out.Sorted()
		return nil
	default:
		return fmt.Errorf("sizes: expected map attribute, got %T", av)
	}
}

func countFromAttribute(av types.AttributeValue) int {
	switch v := av.(type) {
	case *types.AttributeValueMemberN:
		return ParseCount(v.Value)
	case *types.AttributeValueMemberS:
		return ParseCount(v.Value)
	default:
		return 0
	}
}
