// Package vector groups the vector store adapters. Each backend lives in its
// own subpackage (pgvector today) and is exercised through the shared
// contract in vector_contract_test.go.
package vector
