package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/mohae/deepcopy"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"
)

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

type Mode string

const (
	TrainMode    Mode = "train"
	EvaluateMode Mode = "evaluate"
)

// Result is the outcome of one MC-VQE run.
type Result struct {
	ID               string          `json:"id"`
	Mode             Mode            `json:"mode"`
	NChromophores    int             `json:"n-chromophores"`
	NStates          int             `json:"n-states"`
	Cyclic           bool            `json:"cyclic"`
	OptAverageEnergy float64         `json:"opt-average-energy"`
	OptParams        []float64       `json:"opt-params"`
	CircuitDepth     int             `json:"circuit-depth"`
	NGates           int             `json:"n-gates"`
	Diagonal         []float64       `json:"diagonal"`
	Spectrum         []float64       `json:"opt-spectrum,omitempty"`
	Eigenvectors     [][]float64     `json:"eigenvectors,omitempty"`
	CISEnergies      []float64       `json:"cis-energies"`
	OptimizerStatus  string          `json:"optimizer-status,omitempty"`
	Evaluations      int             `json:"evaluations"`
	Started          strfmt.DateTime `json:"started"`
	Ended            strfmt.DateTime `json:"ended"`
}

func NewResult(mode Mode) *Result {
	return &Result{
		ID:        uuid.NewString(),
		Mode:      mode,
		OptParams: []float64{},
		Diagonal:  []float64{},
		Started:   strfmt.DateTime(time.Now()),
	}
}

func (r *Result) Finish() {
	r.Ended = strfmt.DateTime(time.Now())
}

func (r *Result) Clone() *Result {
	c := deepcopy.Copy(r).(*Result)
	c.Started = *r.Started.DeepCopy()
	c.Ended = *r.Ended.DeepCopy()
	return c
}

func (r *Result) ToString() string {
	st, err := r.MarshalIndent()
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to marshal core.Result/reason:%s", err))
		return ""
	}
	return string(st)
}

func (r *Result) MarshalIndent() ([]byte, error) {
	st, err := jsonIter.Marshal(r)
	if err != nil {
		return nil, err
	}
	return pretty.Pretty(st), nil
}

func UnmarshalResult(b []byte) (*Result, error) {
	r := &Result{}
	if err := jsonIter.Unmarshal(b, r); err != nil {
		return nil, err
	}
	return r, nil
}

// SpectrumString lists the energies one per line, or reports that no
// spectrum was computed.
func (r *Result) SpectrumString() string {
	if len(r.Spectrum) == 0 {
		return "MC-VQE energy spectrum not computed"
	}
	var sb strings.Builder
	sb.WriteString("MC-VQE energy spectrum")
	for _, e := range r.Spectrum {
		sb.WriteString(fmt.Sprintf("\n%.12f", e))
	}
	return sb.String()
}
