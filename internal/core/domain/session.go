package domain

// Session is the caller's organisation/branch context, parsed from the bearer
// token by the HTTP layer and handed to the pipeline explicitly. The pipeline
// never reaches into ambient global state for it.
type Session struct {
	UserUID         int64
	OrganisationUID int64
	BranchUID       int64
}

// OrganisationRef returns the organisation reference, or nil when the session
// carries none.
func (s *Session) OrganisationRef() *Reference {
	if s == nil || s.OrganisationUID == 0 {
		return nil
	}
	return &Reference{UID: s.OrganisationUID}
}

// BranchRef returns the branch reference, or nil when the session carries none.
func (s *Session) BranchRef() *Reference {
	if s == nil || s.BranchUID == 0 {
		return nil
	}
	return &Reference{UID: s.BranchUID}
}
