package core

import "sync"

// converters is the process-wide converter registry. It is built once on
// first use and never modified afterwards, so concurrent imports can share it
// without locking.
var converters = sync.OnceValue(func() map[FieldType]Converter {
	return map[FieldType]Converter{
		FieldText:  ConverterFunc(ConvertText),
		FieldInt:   ConverterFunc(ConvertInt),
		FieldFloat: ConverterFunc(ConvertFloat),
		FieldBool:  ConverterFunc(ConvertBool),
		FieldDate:  ConverterFunc(ConvertDate),
	}
})

// ConverterFor returns the converter registered for t.
// Returns false if no converter handles t.
func ConverterFor(t FieldType) (Converter, bool) {
	c, ok := converters()[t]
	return c, ok
}

// ConvertedTypes returns the field types that have a registered converter,
// in FieldType order.
func ConvertedTypes() []FieldType {
	reg := converters()
	types := make([]FieldType, 0, len(reg))
	for t := FieldText; t <= FieldDate; t++ {
		if _, ok := reg[t]; ok {
			types = append(types, t)
		}
	}
	return types
}
