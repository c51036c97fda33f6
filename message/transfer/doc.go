// Package transfer decodes bodies according to the Content-transfer-encoding
// header. Only quoted-printable and base64 change the bytes. Settings such as
// binary, 7bit, or 8bit, an absent header, or an encoding name nobody has
// heard of leave the bytes as-is.
//
// For the sake of this module, the term "decoded" means that the content has
// been transformed from the named Content-transfer-encoding to the charset
// encoded form.
package transfer
