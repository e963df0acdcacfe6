package leave

import (
	"time"

	"github.com/blaze-nyan/brillar-lms/internal/shared/response"
)

type RequestLeaveRequest struct {
	LeaveType string `json:"leaveType" binding:"required,oneof=annual sick casual"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
	Days      int    `json:"days" binding:"required,min=1"`
	Reason    string `json:"reason" binding:"required"`
}

type ResetBalanceRequest struct {
	Annual *int `json:"annual" binding:"omitempty,min=0"`
	Sick   *int `json:"sick" binding:"omitempty,min=0"`
	Casual *int `json:"casual" binding:"omitempty,min=0"`
}

type AdjustBalanceRequest struct {
	LeaveType  string `json:"leaveType" binding:"required,oneof=annual sick casual"`
	Adjustment int    `json:"adjustment" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
}

type BucketResponse struct {
	Total     int `json:"total"`
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}

type CurrentLeaveResponse struct {
	LeaveType string `json:"leaveType"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Days      int    `json:"days"`
}

type BalanceResponse struct {
	EmployeeID   string                `json:"employeeId"`
	Annual       BucketResponse        `json:"annual"`
	Sick         BucketResponse        `json:"sick"`
	Casual       BucketResponse        `json:"casual"`
	CurrentLeave *CurrentLeaveResponse `json:"currentLeave"`
	LastUpdated  time.Time             `json:"lastUpdated"`
}

type LeaveRequestResponse struct {
	ID              string  `json:"id"`
	LeaveType       string  `json:"leaveType"`
	StartDate       string  `json:"startDate"`
	EndDate         string  `json:"endDate"`
	Days            int     `json:"days"`
	Reason          string  `json:"reason"`
	Status          string  `json:"status"`
	AppliedDate     string  `json:"appliedDate"`
	ApprovedDate    *string `json:"approvedDate,omitempty"`
	ApprovedBy      *string `json:"approvedBy,omitempty"`
	RejectionReason *string `json:"rejectionReason,omitempty"`
}

type HistoryResponse struct {
	Requests   []LeaveRequestResponse `json:"requests"`
	Pagination response.Pagination    `json:"pagination"`
}

type AdminBalanceResponse struct {
	EmployeeID  string         `json:"employeeId"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Supervisor  string         `json:"supervisor"`
	Annual      BucketResponse `json:"annual"`
	Sick        BucketResponse `json:"sick"`
	Casual      BucketResponse `json:"casual"`
	LastUpdated *string        `json:"lastUpdated"`
}

type AdminBalanceListResponse struct {
	Balances   []AdminBalanceResponse `json:"balances"`
	Pagination response.Pagination    `json:"pagination"`
}

type TypeUsageResponse struct {
	AverageUsed float64 `json:"averageUsed"`
	TotalUsed   int     `json:"totalUsed"`
}

type SupervisorStatResponse struct {
	Supervisor     string `json:"supervisor"`
	TotalLeaveUsed int    `json:"totalLeaveUsed"`
}

type MonthlyTrendResponse struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type StatisticsResponse struct {
	TotalUsers           int64                        `json:"totalUsers"`
	UsersOnLeave         int64                        `json:"usersOnLeave"`
	LeaveStatistics      map[string]TypeUsageResponse `json:"leaveStatistics"`
	SupervisorStatistics []SupervisorStatResponse     `json:"supervisorStatistics"`
	MonthlyTrend         []MonthlyTrendResponse       `json:"monthlyTrend"`
}

const dateLayout = "2006-01-02"

func toBalanceResponse(b *LeaveBalance) BalanceResponse {
	resp := BalanceResponse{
		EmployeeID:  b.EmployeeID.String(),
		Annual:      BucketResponse{Total: b.AnnualTotal, Used: b.AnnualUsed, Remaining: b.AnnualRemaining},
		Sick:        BucketResponse{Total: b.SickTotal, Used: b.SickUsed, Remaining: b.SickRemaining},
		Casual:      BucketResponse{Total: b.CasualTotal, Used: b.CasualUsed, Remaining: b.CasualRemaining},
		LastUpdated: b.UpdatedAt,
	}
	if b.CurrentLeaveType != nil && b.CurrentLeaveStart != nil && b.CurrentLeaveEnd != nil {
		resp.CurrentLeave = &CurrentLeaveResponse{
			LeaveType: *b.CurrentLeaveType,
			StartDate: b.CurrentLeaveStart.Format(dateLayout),
			EndDate:   b.CurrentLeaveEnd.Format(dateLayout),
			Days:      b.CurrentLeaveDays,
		}
	}
	return resp
}

func toRequestResponse(req *LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:          req.ID.String(),
		LeaveType:   req.LeaveType,
		StartDate:   req.StartDate.Format(dateLayout),
		EndDate:     req.EndDate.Format(dateLayout),
		Days:        req.Days,
		Reason:      req.Reason,
		Status:      req.Status,
		AppliedDate: req.AppliedDate.Format(time.RFC3339),
	}
	if req.ApprovedDate != nil {
		s := req.ApprovedDate.Format(time.RFC3339)
		resp.ApprovedDate = &s
	}
	if req.ApprovedBy != "" {
		s := req.ApprovedBy
		resp.ApprovedBy = &s
	}
	resp.RejectionReason = req.RejectionReason
	return resp
}

func toAdminBalanceResponse(row BalanceRow) AdminBalanceResponse {
	resp := AdminBalanceResponse{
		EmployeeID: row.EmployeeID.String(),
		Name:       row.Name,
		Email:      row.Email,
		Supervisor: row.Supervisor,
		Annual:     BucketResponse{Total: row.AnnualTotal, Used: row.AnnualUsed, Remaining: row.AnnualRemaining},
		Sick:       BucketResponse{Total: row.SickTotal, Used: row.SickUsed, Remaining: row.SickRemaining},
		Casual:     BucketResponse{Total: row.CasualTotal, Used: row.CasualUsed, Remaining: row.CasualRemaining},
	}
	if row.LastUpdated != nil {
		s := row.LastUpdated.Format(time.RFC3339)
		resp.LastUpdated = &s
	}
	return resp
}
