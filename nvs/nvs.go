// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package nvs implements an interface
// for the NERC Vocabulary Server
// <https://vocab.nerc.ac.uk>.
package nvs

import (
	"net/http"
	"sync"
	"time"
)

// Retry is the number of times a request will be retried
// before aborted.
var Retry = 5

// Timeout is the timeout of the http request.
var Timeout = 20 * time.Second

// Wait is the waiting time for a new request
// (we don't want to overload the NVS server!).
var Wait = time.Millisecond * 300

// Buffer is the maximum number of requests in the request queue.
var Buffer = 10

const wsHead = "https://vocab.nerc.ac.uk/v2/"

// A client serializes the requests to the vocabulary server,
// spaced by Wait,
// over its own http client.
type client struct {
	hc   *http.Client
	reqs chan request
}

type request struct {
	url string
	ans chan *http.Response
	err chan error
}

var once sync.Once

var cl *client

// Open starts the request queue.
// It must be called before the first query.
func Open() {
	once.Do(func() {
		cl = &client{
			hc:   &http.Client{Timeout: Timeout},
			reqs: make(chan request, Buffer),
		}
		go cl.run()
	})
}

// Get queues a get request for a query
// relative to the service root.
func get(q string) request {
	r := request{
		url: wsHead + q,
		ans: make(chan *http.Response),
		err: make(chan error),
	}
	cl.reqs <- r
	return r
}

func (c *client) run() {
	tick := time.NewTicker(Wait)
	defer tick.Stop()

	for r := range c.reqs {
		c.do(r)

		// we do not want to overload the NVS server.
		<-tick.C
	}
}

func (c *client) do(r request) {
	req, err := http.NewRequest(http.MethodGet, r.url, nil)
	if err != nil {
		r.err <- err
		return
	}
	req.Header.Set("Accept", "application/json")

	answer, err := c.hc.Do(req)
	if err != nil {
		r.err <- err
		return
	}
	r.ans <- answer
}
