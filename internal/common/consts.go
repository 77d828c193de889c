package common

// UnknownStr is reported wherever a name or version cannot be discovered.
const UnknownStr = "unknown"
