package services

const (
	LogActionReportLocate   = "REPORT_LOCATE"
	LogActionReportDownload = "REPORT_DOWNLOAD"
	LogActionGenReconcile   = "GENERATION_RECONCILE"
	LogActionLoadFetch      = "LOAD_FETCH"
	LogActionDataStore      = "DATA_STORE"
	LogActionDataExport     = "DATA_EXPORT"
	LogActionRefresh        = "PIPELINE_REFRESH"
	LogOutcomeSuccess       = "SUCCESS"
	LogOutcomeFail          = "FAIL"
)
