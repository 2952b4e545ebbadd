package apihttp

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	fermentation "vineyard-planner/internal/fermentation/domain"
	production "vineyard-planner/internal/production/domain"
)

// SO2Result is the response of the SO2 calculator.
type SO2Result struct {
	PH             float64  `json:"ph"`
	RecommendedPPM float64  `json:"recommended_ppm"`
	VolumeGallons  *float64 `json:"volume_gallons,omitempty"`
	KMBSGrams      *float64 `json:"kmbs_grams,omitempty"`
}

// YeastResult is the response of the yeast calculator.
type YeastResult struct {
	Varietal string                    `json:"varietal"`
	Code     string                    `json:"code"`
	Strain   *fermentation.YeastStrain `json:"strain,omitempty"`
}

// CrushYieldResult is the response of the crush yield calculator.
type CrushYieldResult struct {
	WeightLbs float64 `json:"weight_lbs"`
	White     bool    `json:"white"`
	Gallons   float64 `json:"gallons"`
	Cases     int     `json:"estimated_cases"`
}

// CaseYieldResult is the response of the case yield calculator.
type CaseYieldResult struct {
	VolumeGallons float64 `json:"volume_gallons"`
	Cases         int     `json:"estimated_cases"`
}

// CostPerGallonResult is the response of the cost per gallon calculator.
type CostPerGallonResult struct {
	TotalCost     float64 `json:"total_cost"`
	VolumeGallons float64 `json:"volume_gallons"`
	CostPerGallon float64 `json:"cost_per_gallon"`
}

// CalculatorsHandler serves the derived winemaking calculators.
type CalculatorsHandler struct{}

// NewCalculatorsHandler constructs a CalculatorsHandler.
func NewCalculatorsHandler() *CalculatorsHandler {
	return &CalculatorsHandler{}
}

// ServeHTTP handles GET /api/v1/calculators/{name}.
func (h *CalculatorsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/api/v1/calculators/")
	var (
		result any
		err    error
	)
	switch name {
	case "so2":
		result, err = so2(r)
	case "yeast":
		result, err = yeast(r)
	case "crush-yield":
		result, err = crushYield(r)
	case "case-yield":
		result, err = caseYield(r)
	case "cost-per-gallon":
		result, err = costPerGallon(r)
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	body, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "encode result", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(append(body, '\n'))
}

func so2(r *http.Request) (SO2Result, error) {
	ph, err := parseFloatQuery(r, "ph", true)
	if err != nil {
		return SO2Result{}, err
	}
	volume, err := parseFloatQuery(r, "volume_gallons", false)
	if err != nil {
		return SO2Result{}, err
	}
	ppm, _ := fermentation.RecommendedSO2(ph)
	result := SO2Result{PH: *ph, RecommendedPPM: ppm, VolumeGallons: volume}
	if grams, ok := fermentation.SO2Grams(&ppm, volume); ok {
		result.KMBSGrams = &grams
	}
	return result, nil
}

func yeast(r *http.Request) (YeastResult, error) {
	varietal := strings.TrimSpace(r.URL.Query().Get("varietal"))
	code := fermentation.RecommendYeast(varietal)
	result := YeastResult{Varietal: varietal, Code: code}
	if strain, ok := fermentation.LookupYeast(code); ok {
		result.Strain = &strain
	}
	return result, nil
}

func crushYield(r *http.Request) (CrushYieldResult, error) {
	weight, err := parseFloatQuery(r, "weight_lbs", true)
	if err != nil {
		return CrushYieldResult{}, err
	}
	if *weight < 0 {
		return CrushYieldResult{}, fmt.Errorf("weight_lbs must not be negative")
	}
	white := production.IsWhiteVarietal(r.URL.Query().Get("varietal"))
	if raw := r.URL.Query().Get("white"); raw != "" {
		white, err = strconv.ParseBool(raw)
		if err != nil {
			return CrushYieldResult{}, fmt.Errorf("invalid white: %w", err)
		}
	}
	gallons := production.CrushYieldGallons(*weight, white)
	return CrushYieldResult{
		WeightLbs: *weight,
		White:     white,
		Gallons:   gallons,
		Cases:     production.EstimatedCases(gallons),
	}, nil
}

func caseYield(r *http.Request) (CaseYieldResult, error) {
	volume, err := parseFloatQuery(r, "volume_gallons", true)
	if err != nil {
		return CaseYieldResult{}, err
	}
	return CaseYieldResult{VolumeGallons: *volume, Cases: production.EstimatedCases(*volume)}, nil
}

func costPerGallon(r *http.Request) (CostPerGallonResult, error) {
	total, err := parseFloatQuery(r, "total_cost", true)
	if err != nil {
		return CostPerGallonResult{}, err
	}
	volume, err := parseFloatQuery(r, "volume_gallons", true)
	if err != nil {
		return CostPerGallonResult{}, err
	}
	cost, ok := production.CostPerGallon(*total, *volume)
	if !ok {
		return CostPerGallonResult{}, fmt.Errorf("volume_gallons must be positive")
	}
	return CostPerGallonResult{TotalCost: *total, VolumeGallons: *volume, CostPerGallon: cost}, nil
}

func parseFloatQuery(r *http.Request, key string, required bool) (*float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		if required {
			return nil, fmt.Errorf("%s is required", key)
		}
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("invalid %s", key)
	}
	return &value, nil
}
