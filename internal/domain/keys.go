package domain

// KeyPrefix namespaces all keys written to the shared cache store.
const KeyPrefix = "unidex:"
