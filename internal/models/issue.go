package models

// IssueCode identifies the kind of problem that blocks an export.
type IssueCode string

const (
	IssueSupplierNotInClientDB IssueCode = "apodeixakia_supplier_not_in_client_db"
	IssueCustIDMissing         IssueCode = "custid_missing"
	IssueMissingHeaderAccount  IssueCode = "missing_header_account"
	IssueMissingCategoryLine   IssueCode = "missing_category_line"
	IssueMissingVATRateLine    IssueCode = "missing_vat_rate_line"
	IssueUnresolvedAccountLine IssueCode = "unresolved_account_line"
)

// Issue is a soft validation failure collected while building the preview.
// Modal marks issues the operator fixes in the settings screen.
type Issue struct {
	Code    IssueCode `json:"code" csv:"code"`
	Message string    `json:"message" csv:"message"`
	Modal   bool      `json:"modal" csv:"modal"`
	Mark    string    `json:"mark,omitempty" csv:"mark"`
	AA      string    `json:"aa,omitempty" csv:"aa"`
	Line    int       `json:"line,omitempty" csv:"line"`
	Key     string    `json:"key,omitempty" csv:"expected_key"`
}

// Issues is an append-only list of Issue.
type Issues []Issue

// Add appends an issue.
func (is *Issues) Add(issue Issue) {
	*is = append(*is, issue)
}

// Empty reports whether no issue was collected.
func (is Issues) Empty() bool {
	return len(is) == 0
}

// Messages returns the message of every issue in order.
func (is Issues) Messages() []string {
	out := make([]string, len(is))
	for i, issue := range is {
		out[i] = issue.Message
	}
	return out
}

// CountByCode tallies issues per code.
func (is Issues) CountByCode() map[IssueCode]int {
	out := make(map[IssueCode]int)
	for _, issue := range is {
		out[issue.Code]++
	}
	return out
}
