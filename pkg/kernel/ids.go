package kernel

type TenantID string

func NewTenantID(id string) TenantID { return TenantID(id) }
func (t TenantID) String() string    { return string(t) }
func (t TenantID) IsEmpty() bool     { return string(t) == "" }

type ResumeID string

func NewResumeID(id string) ResumeID { return ResumeID(id) }
func (r ResumeID) String() string    { return string(r) }
func (r ResumeID) IsEmpty() bool     { return string(r) == "" }

type AnalysisID string

func NewAnalysisID(id string) AnalysisID { return AnalysisID(id) }
func (a AnalysisID) String() string      { return string(a) }
func (a AnalysisID) IsEmpty() bool       { return string(a) == "" }

type JobID string

func NewJobID(id string) JobID { return JobID(id) }
func (j JobID) String() string { return string(j) }
func (j JobID) IsEmpty() bool  { return string(j) == "" }
