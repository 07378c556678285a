package binformat

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/apexls/core/internal/symbol"
)

// ExtendedDataBuilder accumulates the variable-length, kind-specific tail
// referenced by a symbol record's (extendedDataOffset, extendedDataLength)
// pair, per spec.md §4.1.
type ExtendedDataBuilder struct {
	buf bytes.Buffer
}

// NewExtendedDataBuilder returns an empty builder.
func NewExtendedDataBuilder() *ExtendedDataBuilder { return &ExtendedDataBuilder{} }

// Append writes data to the area and returns its (offset, length).
func (b *ExtendedDataBuilder) Append(data []byte) (offset, length uint32) {
	offset = uint32(b.buf.Len())
	b.buf.Write(data)
	return offset, uint32(len(data))
}

// Bytes returns the accumulated extended-data area.
func (b *ExtendedDataBuilder) Bytes() []byte { return b.buf.Bytes() }

// ExtendedDataReader provides bounds-checked slices into a previously
// serialized extended-data area.
type ExtendedDataReader struct {
	data []byte
}

// NewExtendedDataReader wraps a previously-loaded extended-data area.
func NewExtendedDataReader(data []byte) *ExtendedDataReader { return &ExtendedDataReader{data: data} }

// Read returns the slice [offset, offset+length).
func (r *ExtendedDataReader) Read(offset, length uint32) ([]byte, error) {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(r.data)) {
		return nil, fmt.Errorf("binformat: extended data range [%d,%d) exceeds area of length %d", offset, end, len(r.data))
	}
	return r.data[offset:end], nil
}

// encodeExtendedData builds the kind-specific tail for sym, or nil when the
// symbol carries nothing beyond its fixed record.
func encodeExtendedData(sym *symbol.Symbol, st *StringTableBuilder) []byte {
	hasData := len(sym.Annotations) > 0
	switch sym.Kind {
	case symbol.KindClass, symbol.KindInterface, symbol.KindEnum, symbol.KindTrigger:
		hasData = hasData || sym.SuperClass != nil || len(sym.Interfaces) > 0 || len(sym.Values) > 0
	case symbol.KindMethod, symbol.KindConstructor:
		hasData = true // isConstructor/hasBody are meaningful even when both false
	case symbol.KindField, symbol.KindProperty, symbol.KindVariable, symbol.KindParameter, symbol.KindEnumValue:
		hasData = hasData || sym.Type != nil || sym.InitialValue != nil
	}
	if !hasData {
		return nil
	}

	buf := &bytes.Buffer{}
	encodeAnnotations(buf, sym.Annotations, st)
	switch sym.Kind {
	case symbol.KindClass, symbol.KindInterface, symbol.KindEnum, symbol.KindTrigger:
		encodeTypeDeclExtension(buf, sym, st)
	case symbol.KindMethod, symbol.KindConstructor:
		encodeMethodExtension(buf, sym, st)
	case symbol.KindField, symbol.KindProperty, symbol.KindVariable, symbol.KindParameter, symbol.KindEnumValue:
		encodeValueExtension(buf, sym, st)
	}
	return buf.Bytes()
}

// decodeExtendedData reverses encodeExtendedData, populating sym in place.
func decodeExtendedData(sym *symbol.Symbol, blob []byte, strings *StringTableReader) error {
	r := bytes.NewReader(blob)
	anns, err := decodeAnnotations(r, strings)
	if err != nil {
		return err
	}
	sym.Annotations = anns

	switch sym.Kind {
	case symbol.KindClass, symbol.KindInterface, symbol.KindEnum, symbol.KindTrigger:
		return decodeTypeDeclExtension(r, sym, strings)
	case symbol.KindMethod, symbol.KindConstructor:
		return decodeMethodExtension(r, sym, strings)
	case symbol.KindField, symbol.KindProperty, symbol.KindVariable, symbol.KindParameter, symbol.KindEnumValue:
		return decodeValueExtension(r, sym, strings)
	}
	return nil
}

func writeU32(w io.Writer, v uint32) error { return binary.Write(w, binary.LittleEndian, v) }

func readU32(r io.Reader) (uint32, error) {
	var v uint32
	err := binary.Read(r, binary.LittleEndian, &v)
	return v, err
}

func writeRange(w io.Writer, rg symbol.Range) error {
	vals := []int32{
		int32(rg.Start.Line), int32(rg.Start.Column),
		int32(rg.End.Line), int32(rg.End.Column),
	}
	for _, v := range vals {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}

func readRange(r io.Reader) (symbol.Range, error) {
	var vals [4]int32
	for i := range vals {
		if err := binary.Read(r, binary.LittleEndian, &vals[i]); err != nil {
			return symbol.Range{}, err
		}
	}
	return symbol.Range{
		Start: symbol.Position{Line: int(vals[0]), Column: int(vals[1])},
		End:   symbol.Position{Line: int(vals[2]), Column: int(vals[3])},
	}, nil
}

func internType(st *StringTableBuilder, t *symbol.TypeInfo) uint32 {
	if t == nil {
		return 0
	}
	return st.Intern(t.OriginalTypeString)
}

func resolveType(strings *StringTableReader, idx uint32) (*symbol.TypeInfo, error) {
	if idx == 0 {
		return nil, nil
	}
	raw, err := strings.Get(idx)
	if err != nil {
		return nil, err
	}
	ti := symbol.NewTypeInfo(raw)
	return &ti, nil
}

func encodeAnnotations(w *bytes.Buffer, anns []symbol.Annotation, st *StringTableBuilder) {
	binary.Write(w, binary.LittleEndian, uint16(len(anns)))
	for _, a := range anns {
		writeU32(w, st.Intern(a.Name))
		writeRange(w, a.Location.SymbolRange)
		writeRange(w, a.Location.IdentifierRange)
		binary.Write(w, binary.LittleEndian, uint16(len(a.Parameters)))
		for _, p := range a.Parameters {
			hasName := byte(0)
			nameIdx := uint32(0)
			if p.Name != nil {
				hasName = 1
				nameIdx = st.Intern(*p.Name)
			}
			w.WriteByte(hasName)
			writeU32(w, nameIdx)
			writeU32(w, st.Intern(p.Value))
		}
	}
}

func decodeAnnotations(r *bytes.Reader, strings *StringTableReader) ([]symbol.Annotation, error) {
	var count uint16
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("binformat: read annotation count: %w", err)
	}
	if count == 0 {
		return nil, nil
	}
	anns := make([]symbol.Annotation, 0, count)
	for i := uint16(0); i < count; i++ {
		nameIdx, err := readU32(r)
		if err != nil {
			return nil, err
		}
		name, err := strings.Get(nameIdx)
		if err != nil {
			return nil, err
		}
		symRange, err := readRange(r)
		if err != nil {
			return nil, err
		}
		idRange, err := readRange(r)
		if err != nil {
			return nil, err
		}
		var paramCount uint16
		if err := binary.Read(r, binary.LittleEndian, &paramCount); err != nil {
			return nil, fmt.Errorf("binformat: read annotation parameter count: %w", err)
		}
		params := make([]symbol.AnnotationParameter, 0, paramCount)
		for j := uint16(0); j < paramCount; j++ {
			hasName, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			nameIdx, err := readU32(r)
			if err != nil {
				return nil, err
			}
			valueIdx, err := readU32(r)
			if err != nil {
				return nil, err
			}
			value, err := strings.Get(valueIdx)
			if err != nil {
				return nil, err
			}
			param := symbol.AnnotationParameter{Value: value}
			if hasName == 1 {
				n, err := strings.Get(nameIdx)
				if err != nil {
					return nil, err
				}
				param.Name = &n
			}
			params = append(params, param)
		}
		anns = append(anns, symbol.Annotation{
			Name:       name,
			Location:   symbol.Location{SymbolRange: symRange, IdentifierRange: idRange},
			Parameters: params,
		})
	}
	return anns, nil
}

func encodeTypeDeclExtension(w *bytes.Buffer, sym *symbol.Symbol, st *StringTableBuilder) {
	writeU32(w, st.InternOptional(sym.SuperClass))

	binary.Write(w, binary.LittleEndian, uint16(len(sym.Interfaces)))
	for _, iface := range sym.Interfaces {
		writeU32(w, st.Intern(iface))
	}

	binary.Write(w, binary.LittleEndian, uint16(len(sym.Values)))
	for _, v := range sym.Values {
		writeU32(w, st.Intern(v.Name))
		writeRange(w, v.Location.SymbolRange)
		writeRange(w, v.Location.IdentifierRange)
	}
}

func decodeTypeDeclExtension(r *bytes.Reader, sym *symbol.Symbol, strings *StringTableReader) error {
	superIdx, err := readU32(r)
	if err != nil {
		return err
	}
	sym.SuperClass, err = strings.GetOptional(superIdx)
	if err != nil {
		return err
	}

	var ifaceCount uint16
	if err := binary.Read(r, binary.LittleEndian, &ifaceCount); err != nil {
		return fmt.Errorf("binformat: read interface count: %w", err)
	}
	if ifaceCount > 0 {
		sym.Interfaces = make([]string, 0, ifaceCount)
		for i := uint16(0); i < ifaceCount; i++ {
			idx, err := readU32(r)
			if err != nil {
				return err
			}
			name, err := strings.Get(idx)
			if err != nil {
				return err
			}
			sym.Interfaces = append(sym.Interfaces, name)
		}
	}

	var valueCount uint16
	if err := binary.Read(r, binary.LittleEndian, &valueCount); err != nil {
		return fmt.Errorf("binformat: read enum value count: %w", err)
	}
	if valueCount > 0 {
		sym.Values = make([]symbol.EnumValue, 0, valueCount)
		for i := uint16(0); i < valueCount; i++ {
			nameIdx, err := readU32(r)
			if err != nil {
				return err
			}
			name, err := strings.Get(nameIdx)
			if err != nil {
				return err
			}
			symRange, err := readRange(r)
			if err != nil {
				return err
			}
			idRange, err := readRange(r)
			if err != nil {
				return err
			}
			sym.Values = append(sym.Values, symbol.EnumValue{
				Name:     name,
				Location: symbol.Location{SymbolRange: symRange, IdentifierRange: idRange},
			})
		}
	}
	return nil
}

func encodeMethodExtension(w *bytes.Buffer, sym *symbol.Symbol, st *StringTableBuilder) {
	isCtor, hasBody := byte(0), byte(0)
	if sym.IsConstructor {
		isCtor = 1
	}
	if sym.HasBody {
		hasBody = 1
	}
	w.WriteByte(isCtor)
	w.WriteByte(hasBody)
	writeU32(w, internType(st, sym.ReturnType))

	binary.Write(w, binary.LittleEndian, uint16(len(sym.Parameters)))
	for _, p := range sym.Parameters {
		writeU32(w, st.Intern(p.Name))
		writeU32(w, st.Intern(p.Type.OriginalTypeString))
	}
}

func decodeMethodExtension(r *bytes.Reader, sym *symbol.Symbol, strings *StringTableReader) error {
	isCtor, err := r.ReadByte()
	if err != nil {
		return err
	}
	hasBody, err := r.ReadByte()
	if err != nil {
		return err
	}
	sym.IsConstructor = isCtor == 1
	sym.HasBody = hasBody == 1

	retIdx, err := readU32(r)
	if err != nil {
		return err
	}
	sym.ReturnType, err = resolveType(strings, retIdx)
	if err != nil {
		return err
	}

	var paramCount uint16
	if err := binary.Read(r, binary.LittleEndian, &paramCount); err != nil {
		return fmt.Errorf("binformat: read parameter count: %w", err)
	}
	if paramCount > 0 {
		sym.Parameters = make([]symbol.Parameter, 0, paramCount)
		for i := uint16(0); i < paramCount; i++ {
			nameIdx, err := readU32(r)
			if err != nil {
				return err
			}
			name, err := strings.Get(nameIdx)
			if err != nil {
				return err
			}
			typeIdx, err := readU32(r)
			if err != nil {
				return err
			}
			raw, err := strings.Get(typeIdx)
			if err != nil {
				return err
			}
			sym.Parameters = append(sym.Parameters, symbol.Parameter{Name: name, Type: symbol.NewTypeInfo(raw)})
		}
	}
	return nil
}

func encodeValueExtension(w *bytes.Buffer, sym *symbol.Symbol, st *StringTableBuilder) {
	writeU32(w, internType(st, sym.Type))
	writeU32(w, st.InternOptional(sym.InitialValue))
}

func decodeValueExtension(r *bytes.Reader, sym *symbol.Symbol, strings *StringTableReader) error {
	typeIdx, err := readU32(r)
	if err != nil {
		return err
	}
	sym.Type, err = resolveType(strings, typeIdx)
	if err != nil {
		return err
	}
	initIdx, err := readU32(r)
	if err != nil {
		return err
	}
	sym.InitialValue, err = strings.GetOptional(initIdx)
	return err
}
