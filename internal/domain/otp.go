package domain

// OTPTTLSeconds is how long an issued code stays valid.
const OTPTTLSeconds = 10 * 60

// OTPRecord stores one live verification code per email.
// PK: email. A resend overwrites the previous record, so at most one code
// is ever valid for an address. Only the bcrypt hash of the code is kept;
// the raw code exists only in the delivery email.
// ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type OTPRecord struct {
	Email     string `json:"email" dynamodbav:"email"`
	CodeHash  string `json:"code_hash" dynamodbav:"code_hash"`
	Attempts  int    `json:"attempts" dynamodbav:"attempts"`
	CreatedAt int64  `json:"created_at" dynamodbav:"created_at"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}
