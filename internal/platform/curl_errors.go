package platform

import "fmt"

var curlExitCodes = map[int]string{
	0:  "Success",
	1:  "Unsupported protocol",
	2:  "Failed to initialize",
	3:  "URL malformed",
	4:  "A required feature was disabled at build-time",
	5:  "Could not resolve proxy",
	6:  "Could not resolve host",
	7:  "Failed to connect to host",
	8:  "Weird server reply",
	9:  "FTP access denied",
	10: "FTP accept failed",
	11: "FTP weird PASS reply",
	12: "FTP accept timeout",
	13: "FTP weird PASV reply",
	14: "FTP weird 227 format",
	15: "FTP cannot use host",
	16: "HTTP/2 framing error",
	17: "FTP could not set binary",
	18: "Partial file, only a part of the file was transferred",
	19: "FTP could not download/access the given file",
	21: "FTP quote error",
	22: "HTTP page not retrieved",
	23: "Write error",
	25: "Failed starting the upload",
	26: "Read error",
	27: "Out of memory",
	28: "Operation timeout",
	30: "FTP PORT failed",
	31: "FTP could not use REST",
	33: "HTTP range error",
	34: "HTTP post error",
	35: "SSL connect error",
	36: "Bad download resume",
	37: "FILE could not read file",
	38: "LDAP cannot bind",
	39: "LDAP search failed",
	41: "Function not found",
	42: "Aborted by callback",
	43: "Internal error",
	45: "Interface error",
	47: "Too many redirects",
	48: "Unknown option specified to libcurl",
	49: "Malformed telnet option",
	52: "The server did not reply anything",
	53: "SSL crypto engine not found",
	54: "Cannot set SSL crypto engine as default",
	55: "Failed sending network data",
	56: "Failure in receiving network data",
	58: "Problem with the local certificate",
	59: "Could not use specified SSL cipher",
	60: "Peer certificate cannot be authenticated with known CA certificates",
	61: "Unrecognized transfer encoding",
	63: "Maximum file size exceeded",
	64: "Requested FTP SSL level failed",
	65: "Sending the data requires a rewind that failed",
	66: "Failed to initialize SSL Engine",
	67: "The user name, password, or similar was not accepted",
	68: "File not found on TFTP server",
	69: "Permission problem on TFTP server",
	70: "Out of disk space on TFTP server",
	71: "Illegal TFTP operation",
	72: "Unknown TFTP transfer ID",
	73: "File already exists (TFTP)",
	74: "No such user (TFTP)",
	77: "Problem reading the SSL CA cert",
	78: "The resource referenced in the URL does not exist",
	79: "An unspecified error occurred during the SSH session",
	80: "Failed to shut down the SSL connection",
	82: "Could not load CRL file",
	83: "Issuer check failed",
	84: "The FTP PRET command failed",
	85: "Mismatch of RTSP CSeq numbers",
	86: "Mismatch of RTSP Session Identifiers",
	87: "Unable to parse FTP file list",
	88: "FTP chunk callback reported error",
	89: "No connection available, the session will be queued",
	90: "SSL public key does not matched pinned public key",
	91: "Invalid SSL certificate status",
	92: "Stream error in HTTP/2 framing layer",
	93: "An API function was called from inside a callback",
	94: "An authentication function returned an error",
	95: "A problem was detected in the HTTP/3 layer",
	96: "QUIC connection error",
	97: "Proxy handshake error",
	98: "A client-side certificate is required to complete the TLS handshake",
	99: "Poll or select returned fatal error",
}

// ExitCodeText returns a human readable description of a curl exit code
func ExitCodeText(code int) string {
	if text, ok := curlExitCodes[code]; ok {
		return text
	}
	return fmt.Sprintf("Unknown exit code %d", code)
}
