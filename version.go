package quill

// Version exposes the version of the library and CLI.
const Version = "0.3.0"
