// Package formrec is the HTTP client for the document field-extraction
// service. It is a consumed contract only: two operations, identity
// documents and boarding passes, both returning raw string fields with no
// type coercion.
package formrec
