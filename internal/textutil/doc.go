// Package textutil provides small pure string helpers shared across the
// verification pipeline, most importantly the normalization rule used for
// every manifest/document field comparison.
package textutil
