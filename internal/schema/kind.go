package schema

import "github.com/zclconf/go-cty/cty"

// Kind is the closed set of value kinds a parameter can hold.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindUint
	KindReal
	KindString
	KindFileName
	KindFileNameNoExt
	KindMeshFileName
	KindEnum
	KindName
	KindObjectRef
	KindPoint
	KindBoolVector
	KindIntVector
	KindRealVector
	KindStringVector
	KindFileNameVector
	KindEnumVector
	KindNameVector
	KindObjectRefVector
	KindPointVector
	KindIntVectorVector
	KindRealVectorVector
	KindStringVectorVector
	KindRealVector3D
	KindRealMap
	KindStringMap

	kindCount
)

var kindNames = [kindCount]string{
	KindInvalid:            "Invalid",
	KindBool:               "Bool",
	KindInt:                "Int",
	KindUint:               "Uint",
	KindReal:               "Real",
	KindString:             "String",
	KindFileName:           "FileName",
	KindFileNameNoExt:      "FileNameNoExtension",
	KindMeshFileName:       "MeshFileName",
	KindEnum:               "Enum",
	KindName:               "Name",
	KindObjectRef:          "ObjectRef",
	KindPoint:              "Point",
	KindBoolVector:         "BoolVector",
	KindIntVector:          "IntVector",
	KindRealVector:         "RealVector",
	KindStringVector:       "StringVector",
	KindFileNameVector:     "FileNameVector",
	KindEnumVector:         "EnumVector",
	KindNameVector:         "NameVector",
	KindObjectRefVector:    "ObjectRefVector",
	KindPointVector:        "PointVector",
	KindIntVectorVector:    "IntVectorVector",
	KindRealVectorVector:   "RealVectorVector",
	KindStringVectorVector: "StringVectorVector",
	KindRealVector3D:       "RealVector3D",
	KindRealMap:            "RealMap",
	KindStringMap:          "StringMap",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "Invalid"
	}
	return kindNames[k]
}

// Valid reports whether k is a declarable kind.
func (k Kind) Valid() bool { return k > KindInvalid && k < kindCount }

// IsNumeric reports whether values of kind k are numbers or collections of
// numbers, which is what range expressions can check.
func (k Kind) IsNumeric() bool {
	switch k {
	case KindInt, KindUint, KindReal, KindIntVector, KindRealVector,
		KindIntVectorVector, KindRealVectorVector, KindRealVector3D:
		return true
	}
	return false
}

// IsVector reports whether k holds a one dimensional list.
func (k Kind) IsVector() bool {
	switch k {
	case KindBoolVector, KindIntVector, KindRealVector, KindStringVector,
		KindFileNameVector, KindEnumVector, KindNameVector, KindObjectRefVector, KindPointVector:
		return true
	}
	return false
}

// Type returns the cty type used to store values of kind k.
func (k Kind) Type() cty.Type {
	switch k {
	case KindBool:
		return cty.Bool
	case KindInt, KindUint, KindReal:
		return cty.Number
	case KindString, KindFileName, KindFileNameNoExt, KindMeshFileName, KindEnum, KindName, KindObjectRef:
		return cty.String
	case KindPoint, KindIntVector, KindRealVector:
		return cty.List(cty.Number)
	case KindBoolVector:
		return cty.List(cty.Bool)
	case KindStringVector, KindFileNameVector, KindEnumVector, KindNameVector, KindObjectRefVector:
		return cty.List(cty.String)
	case KindPointVector, KindIntVectorVector, KindRealVectorVector:
		return cty.List(cty.List(cty.Number))
	case KindStringVectorVector:
		return cty.List(cty.List(cty.String))
	case KindRealVector3D:
		return cty.List(cty.List(cty.List(cty.Number)))
	case KindRealMap:
		return cty.Map(cty.Number)
	case KindStringMap:
		return cty.Map(cty.String)
	}
	return cty.DynamicPseudoType
}
