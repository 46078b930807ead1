// simcheck is a smoke-test client for a running forecast API instance: it
// triggers schedule and stats ingestion, waits for the jobs to finish, and
// then requests a prediction for the first game of the day.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

var (
	apiURL = flag.String("api", "http://localhost:8080", "base URL of the forecast API")
	date   = flag.String("date", time.Now().UTC().Format("2006-01-02"), "schedule date to sync")
	season = flag.Int("season", time.Now().UTC().Year(), "season to sync stats for")
)

func main() {
	flag.Parse()
	client := &http.Client{Timeout: 30 * time.Second}

	scheduleJob := trigger(client, "/api/v1/ingest/schedule", map[string]any{"date": *date})
	statsJob := trigger(client, "/api/v1/ingest/team-stats", map[string]any{"season": *season})

	waitForJob(client, scheduleJob)
	waitForJob(client, statsJob)

	gameID := firstGameOfDay(client)
	if gameID == 0 {
		log.Fatalf("no games scheduled for %s", *date)
	}

	fmt.Printf("Predicting game %d...\n", gameID)
	resp, err := client.Post(fmt.Sprintf("%s/api/v1/games/%d/predict", *apiURL, gameID), "application/json", bytes.NewBufferString("{}"))
	if err != nil {
		log.Fatalf("predict request failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %s\n", resp.Status)
	fmt.Printf("Response: %s\n", string(body))

	if resp.StatusCode == http.StatusOK {
		fmt.Println("✅ Prediction pipeline healthy")
	} else {
		fmt.Println("❌ Prediction failed")
	}
}

func trigger(client *http.Client, path string, payload map[string]any) string {
	body, _ := json.Marshal(payload)
	resp, err := client.Post(*apiURL+path, "application/json", bytes.NewBuffer(body))
	if err != nil {
		log.Fatalf("POST %s failed: %v", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		raw, _ := io.ReadAll(resp.Body)
		log.Fatalf("POST %s: %s (%s)", path, resp.Status, string(raw))
	}

	var accepted struct {
		JobID string `json:"job_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&accepted); err != nil {
		log.Fatalf("decode job response: %v", err)
	}
	fmt.Printf("Enqueued %s as job %s\n", path, accepted.JobID)
	return accepted.JobID
}

func waitForJob(client *http.Client, jobID string) {
	deadline := time.Now().Add(2 * time.Minute)
	for time.Now().Before(deadline) {
		resp, err := client.Get(fmt.Sprintf("%s/api/v1/ingest/jobs/%s", *apiURL, jobID))
		if err != nil {
			log.Fatalf("job poll failed: %v", err)
		}

		var job struct {
			Status string `json:"status"`
			Error  string `json:"error"`
		}
		err = json.NewDecoder(resp.Body).Decode(&job)
		resp.Body.Close()
		if err != nil {
			log.Fatalf("decode job status: %v", err)
		}

		switch job.Status {
		case "completed":
			fmt.Printf("Job %s completed\n", jobID)
			return
		case "failed":
			log.Fatalf("job %s failed: %s", jobID, job.Error)
		}

		time.Sleep(2 * time.Second)
	}
	log.Fatalf("job %s did not finish in time", jobID)
}

func firstGameOfDay(client *http.Client) int {
	resp, err := client.Get(fmt.Sprintf("%s/api/v1/schedule?date=%s", *apiURL, *date))
	if err != nil {
		log.Fatalf("schedule request failed: %v", err)
	}
	defer resp.Body.Close()

	var schedule struct {
		Games []struct {
			ID int `json:"id"`
		} `json:"games"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&schedule); err != nil {
		log.Fatalf("decode schedule: %v", err)
	}

	if len(schedule.Games) == 0 {
		return 0
	}
	return schedule.Games[0].ID
}
