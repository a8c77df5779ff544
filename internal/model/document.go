package model

import "time"

// Document is a file attached to a leave request. The binary lives in the
// external media store; this record only keeps its identifier and URL.
// Documents are never updated after creation.
type Document struct {
	ID               string           `json:"id"`
	LeaveRequestID   string           `json:"leaveRequestId"`
	ExternalMediaID  string           `json:"externalMediaId"`
	ExternalMediaURL string           `json:"externalMediaUrl"`
	UploadedByID     string           `json:"uploadedById"`
	CreatedAt        time.Time        `json:"createdAt"`
	LeaveRequest     *LeaveRequestRef `json:"leaveRequest,omitempty"`
}

// LeaveRequestRef is the slice of a leave request that documents expose.
type LeaveRequestRef struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	LeaveType  string    `json:"leaveType"`
	Status     string    `json:"status"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
}

// DocumentOwnership is the read-only projection of the
// document -> leave request -> employee -> user chain used to authorize mutations.
type DocumentOwnership struct {
	DocumentID      string
	ExternalMediaID string
	UploadedByID    string
	LeaveRequestID  string
	EmployeeUserID  string
}

// CanBeDeletedBy reports whether userID uploaded the document or owns its leave request.
func (o DocumentOwnership) CanBeDeletedBy(userID string) bool {
	if userID == "" {
		return false
	}
	return userID == o.UploadedByID || userID == o.EmployeeUserID
}
