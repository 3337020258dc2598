package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ApprovalStatus tracks an administrator's decision on a registration
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) String() string {
	return string(s)
}

func (s ApprovalStatus) IsValid() bool {
	switch s {
	case ApprovalStatusPending, ApprovalStatusApproved, ApprovalStatusRejected:
		return true
	}
	return false
}

func (s ApprovalStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *ApprovalStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = ApprovalStatus(str)
	return nil
}

func (s ApprovalStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *ApprovalStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ApprovalStatusPending
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = ApprovalStatus(v)
	case []byte:
		*s = ApprovalStatus(string(v))
	}
	return nil
}
