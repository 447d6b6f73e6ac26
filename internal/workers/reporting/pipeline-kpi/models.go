// internal/workers/reporting/pipeline-kpi/models.go
package pipelinekpi

type Input struct {
	QueryType string                 `json:"queryType"`
	Params    map[string]interface{} `json:"params,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}
