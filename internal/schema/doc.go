// Package schema interprets the loosely-typed input schema stored on an
// ability. Parse turns the document into typed fields once at the boundary;
// FormatValue and ConvertValue move values between control form and wire
// type.
package schema
