package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// The simulator plays the external telemetry/flight-log collaborator:
// the only writer allowed to advance cumulative usage counters. Aircraft
// accrue Hobbs hours, ground units accrue odometer kilometers.

// Asset mirrors the registry shape the API accepts.
type Asset struct {
	AssetID         string  `json:"asset_id"`
	Kind            string  `json:"kind"`
	Make            string  `json:"make"`
	Model           string  `json:"model"`
	Year            int     `json:"year"`
	UsageUnit       string  `json:"usage_unit"`
	CumulativeUsage float64 `json:"cumulative_usage"`
	Status          string  `json:"status"`
	Station         string  `json:"station"`
}

// UsageUpdate mirrors the usage ingestion contract.
type UsageUpdate struct {
	AssetID         string    `json:"asset_id"`
	CumulativeUsage float64   `json:"cumulative_usage"`
	ObservedAt      time.Time `json:"observed_at"`
}

var seedFleet = []Asset{
	{AssetID: "N911MD", Kind: "aircraft", Make: "Airbus", Model: "H135", Year: 2019, UsageUnit: "hours", CumulativeUsage: 1482.3, Status: "available", Station: "Base 1"},
	{AssetID: "N407LF", Kind: "aircraft", Make: "Bell", Model: "407GXi", Year: 2021, UsageUnit: "hours", CumulativeUsage: 523.4, Status: "available", Station: "Base 2"},
	{AssetID: "M-42", Kind: "ground", Make: "Ford", Model: "E-450", Year: 2020, UsageUnit: "km", CumulativeUsage: 88412, Status: "available", Station: "Station 7"},
	{AssetID: "M-17", Kind: "ground", Make: "Mercedes", Model: "Sprinter", Year: 2022, UsageUnit: "km", CumulativeUsage: 31204, Status: "available", Station: "Station 3"},
	{AssetID: "R-5", Kind: "ground", Make: "Pierce", Model: "Enforcer", Year: 2018, UsageUnit: "km", CumulativeUsage: 61330, Status: "available", Station: "Station 1"},
}

var authToken string

func authorizedPost(url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func login(apiBase, username, password string) error {
	payload, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	resp, err := authorizedPost(apiBase+"/api/auth/login", payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login returned %s", resp.Status)
	}
	var loginResp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return err
	}
	authToken = loginResp.Token
	return nil
}

func seedAssets(apiBase string) {
	for _, asset := range seedFleet {
		payload, _ := json.Marshal(asset)
		resp, err := authorizedPost(apiBase+"/api/assets", payload)
		if err != nil {
			log.WithError(err).WithField("asset_id", asset.AssetID).Error("failed to seed asset")
			continue
		}
		resp.Body.Close()
		switch resp.StatusCode {
		case http.StatusCreated:
			log.WithField("asset_id", asset.AssetID).Info("seeded asset")
		case http.StatusConflict:
			// Already registered from an earlier run.
		default:
			log.WithFields(log.Fields{"asset_id": asset.AssetID, "status": resp.Status}).Warn("unexpected seed response")
		}
	}
}

// accrue advances one asset's counter by a plausible amount per tick:
// fractional flight hours for aircraft, tens of kilometers for ground
// units.
func accrue(asset *Asset) float64 {
	if asset.Kind == "aircraft" {
		asset.CumulativeUsage += 0.2 + rand.Float64()*1.3
	} else {
		asset.CumulativeUsage += 5 + rand.Float64()*45
	}
	return asset.CumulativeUsage
}

func sendUsage(apiBase string, update UsageUpdate) {
	payload, err := json.Marshal(update)
	if err != nil {
		log.WithError(err).Error("failed to marshal usage update")
		return
	}
	resp, err := authorizedPost(apiBase+"/api/assets/usage", payload)
	if err != nil {
		log.WithError(err).WithField("asset_id", update.AssetID).Error("failed to send usage update")
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.WithFields(log.Fields{"asset_id": update.AssetID, "status": resp.Status}).Warn("usage update rejected")
		return
	}
	log.WithFields(log.Fields{
		"asset_id": update.AssetID,
		"usage":    update.CumulativeUsage,
	}).Info("usage update sent")
}

func simulateAsset(apiBase string, asset Asset, interval time.Duration) {
	for {
		usage := accrue(&asset)
		sendUsage(apiBase, UsageUpdate{
			AssetID:         asset.AssetID,
			CumulativeUsage: usage,
			ObservedAt:      time.Now(),
		})
		time.Sleep(interval)
	}
}

func main() {
	_ = godotenv.Load()

	apiBase := os.Getenv("COMPLIANCE_API_URL")
	if apiBase == "" {
		apiBase = "http://localhost:8080"
	}

	username := os.Getenv("SIM_USERNAME")
	if username == "" {
		username = "simulator"
	}
	password := os.Getenv("SIM_PASSWORD")
	if password == "" {
		password = "simulator-password"
	}
	if err := login(apiBase, username, password); err != nil {
		log.WithError(err).Fatal("simulator login failed")
	}

	intervalSec := 30
	if val := os.Getenv("SIM_INTERVAL_SECONDS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			intervalSec = n
		}
	}
	interval := time.Duration(intervalSec) * time.Second

	seedAssets(apiBase)

	log.WithFields(log.Fields{
		"assets":   len(seedFleet),
		"interval": interval,
	}).Info("usage simulator started")

	var wg sync.WaitGroup
	for _, asset := range seedFleet {
		wg.Add(1)
		go func(a Asset) {
			defer wg.Done()
			simulateAsset(apiBase, a, interval)
		}(asset)
	}
	wg.Wait()
}
