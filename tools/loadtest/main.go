package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	base := flag.String("url", "http://localhost:8080", "hypechat server URL")
	peers := flag.Int("peers", 10, "Number of simulated remote peers")
	watchers := flag.Int("watchers", 2, "WebSocket watchers per peer conversation")
	messages := flag.Int("messages", 10, "Messages posted per peer")
	flag.Parse()

	log.Printf("Load test: %d peers, %d watchers each, %d messages per peer", *peers, *watchers, *messages)

	wsBase := "ws" + strings.TrimPrefix(*base, "http")

	var (
		posted    int64
		received  int64
		errors    int64
		latencies []time.Duration
		latencyMu sync.Mutex
		wg        sync.WaitGroup
		conns     []*websocket.Conn
	)

	// Open watchers first so every posted message has an audience.
	for p := 0; p < *peers; p++ {
		for w := 0; w < *watchers; w++ {
			url := fmt.Sprintf("%s/ws?user=watcher_%d_%d&endpoint=peer_%d", wsBase, p, w, p)
			conn, _, err := websocket.DefaultDialer.Dial(url, nil)
			if err != nil {
				atomic.AddInt64(&errors, 1)
				log.Printf("watcher %d/%d: dial error: %v", p, w, err)
				continue
			}
			conns = append(conns, conn)

			go func() {
				for {
					_, data, err := conn.ReadMessage()
					if err != nil {
						return
					}
					var ev map[string]any
					if json.Unmarshal(data, &ev) == nil && ev["type"] == "message" {
						atomic.AddInt64(&received, 1)
					}
				}
			}()
		}
	}
	time.Sleep(200 * time.Millisecond)

	start := time.Now()
	for p := 0; p < *peers; p++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			url := fmt.Sprintf("%s/api/conversations/peer_%d/messages", *base, id)
			for j := 0; j < *messages; j++ {
				body := fmt.Sprintf(`{"from":"peer_%d","text":"msg %d"}`, id, j)
				sendTime := time.Now()
				resp, err := http.Post(url, "application/json", strings.NewReader(body))
				if err != nil {
					atomic.AddInt64(&errors, 1)
					return
				}
				resp.Body.Close()
				if resp.StatusCode != http.StatusCreated {
					atomic.AddInt64(&errors, 1)
					continue
				}
				atomic.AddInt64(&posted, 1)
				lat := time.Since(sendTime)
				latencyMu.Lock()
				latencies = append(latencies, lat)
				latencyMu.Unlock()
			}
		}(p)
	}

	wg.Wait()
	elapsed := time.Since(start)

	// Wait a bit for remaining fan-out.
	time.Sleep(500 * time.Millisecond)
	for _, c := range conns {
		c.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.Close()
	}

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	fmt.Println("\n=== Load Test Results ===")
	fmt.Printf("Duration:    %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("Watchers:    %d connected\n", len(conns))
	fmt.Printf("Posted:      %d messages\n", posted)
	fmt.Printf("Delivered:   %d message events (expected %d)\n", atomic.LoadInt64(&received), posted*int64(*watchers))
	fmt.Printf("Errors:      %d\n", errors)
	if len(latencies) > 0 {
		fmt.Printf("Ingress p50: %s\n", percentile(latencies, 50))
		fmt.Printf("Ingress p95: %s\n", percentile(latencies, 95))
		fmt.Printf("Ingress p99: %s\n", percentile(latencies, 99))
	}
	fmt.Printf("Throughput:  %.0f msgs/sec\n", float64(atomic.LoadInt64(&posted))/elapsed.Seconds())
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
