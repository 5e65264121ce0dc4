// Package schema declares the typed parameters an object or action accepts
// and converts literal input text into values of those types.
//
// A Parameters set is built by a class's params function, copied per block by
// the extractor and filled from the input. Every value is held as a cty.Value
// whose type follows from the parameter's Kind; Decode copies the values into
// a tagged Go struct.
//
// Kinds form a closed enumeration with one converter per kind. Vectors are
// whitespace separated, vectors of vectors separate rows with ';' and 3D
// vectors separate planes with '|'. Maps alternate keys and values.
package schema
