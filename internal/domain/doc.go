// Package domain contains the account entity, its validation rules and the
// classified error taxonomy shared by every layer of the service. It has no
// knowledge of storage or transport.
package domain
