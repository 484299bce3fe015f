package domain

// KeyPrefix namespaces every storage key written by this service.
// Overridden from config at startup; repositories read it per call.
var KeyPrefix = "docsift:"
