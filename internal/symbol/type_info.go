package symbol

import "strings"

// TypeInfo describes a raw type token the way it appeared in source. Per
// spec.md §3 it is built directly from the token the collector saw and is
// never aliased/resolved at collection time — resolution against the cross
// file graph happens later, in the validation tier.
type TypeInfo struct {
	Name               string
	OriginalTypeString string
	IsArray            bool
	IsCollection       bool
	IsPrimitive        bool
	IsBuiltIn          bool
	Namespace          *string
	TypeParameters     []TypeInfo
	KeyType            *TypeInfo // set for map-shaped collections
}

var primitiveNames = map[string]bool{
	"integer": true, "long": true, "double": true, "decimal": true,
	"boolean": true, "string": true, "id": true, "blob": true,
	"date": true, "datetime": true, "time": true, "object": true,
}

// NewTypeInfo builds a TypeInfo from the raw token text the collector
// extracted from a type reference node. It does not consult any symbol table;
// "primitive" and "built-in" are determined purely lexically against the
// language's reserved primitive names.
func NewTypeInfo(raw string) TypeInfo {
	lower := strings.ToLower(raw)
	info := TypeInfo{
		Name:               raw,
		OriginalTypeString: raw,
	}
	switch {
	case strings.HasSuffix(raw, "[]"):
		info.IsArray = true
		info.Name = raw[:len(raw)-2]
	case strings.HasPrefix(lower, "list<"), strings.HasPrefix(lower, "set<"):
		info.IsCollection = true
	case strings.HasPrefix(lower, "map<"):
		info.IsCollection = true
	}
	if primitiveNames[strings.ToLower(info.Name)] {
		info.IsPrimitive = true
		info.IsBuiltIn = true
	}
	return info
}
