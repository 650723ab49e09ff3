package errors

type Code string

const (
	CodeUnknown            Code = "UNKNOWN"
	CodeInternal           Code = "INTERNAL_ERROR"
	CodeConfigValidation   Code = "CONFIG_VALIDATION_ERROR"
	CodeConfigReadError    Code = "CONFIG_READ_ERROR"
	CodeConfigParseError   Code = "CONFIG_PARSE_ERROR"
	CodeManifestReadError  Code = "MANIFEST_READ_ERROR"
	CodeManifestParseError Code = "MANIFEST_PARSE_ERROR"
	CodeManifestValidation Code = "MANIFEST_VALIDATION_ERROR"
	CodeTransportError     Code = "TRANSPORT_ERROR"
	CodeAPIError           Code = "API_ERROR"
	CodeAuthError          Code = "AUTH_ERROR"
	CodeDecodeError        Code = "DECODE_ERROR"
	CodeResourceNotFound   Code = "RESOURCE_NOT_FOUND"
	CodeReferenceError     Code = "REFERENCE_RESOLUTION_ERROR"
	CodeConfigConflict     Code = "CONFIG_CONFLICT_ERROR"
	CodeNotImplemented     Code = "NOT_IMPLEMENTED"
)

func (c Code) String() string {
	return string(c)
}
