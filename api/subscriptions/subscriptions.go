// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/api/utils"
	"github.com/rentnet/rentnet/block"
	"github.com/rentnet/rentnet/chain"
	"github.com/rentnet/rentnet/log"
	"github.com/rentnet/rentnet/logdb"
	"github.com/rentnet/rentnet/rentnet"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
)

type msgReader interface {
	Read() (msgs [][]byte, ok bool, err error)
}

type Subscriptions struct {
	backtraceLimit uint32
	repo           *chain.Repository
	logDB          *logdb.LogDB
	upgrader       *websocket.Upgrader
	blockCache     *messageCache
	done           chan struct{}
	wg             sync.WaitGroup
}

func New(repo *chain.Repository, logDB *logdb.LogDB, allowedOrigins []string, backtraceLimit uint32) *Subscriptions {
	return &Subscriptions{
		backtraceLimit: backtraceLimit,
		repo:           repo,
		logDB:          logDB,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == u.Hostname() || allowed == origin {
						return true
					}
				}
				return false
			},
		},
		blockCache: newMessageCache(backtraceLimit),
		done:       make(chan struct{}),
	}
}

// parsePosition returns the number of the first block to push. By default
// only blocks after the best one are pushed.
func (s *Subscriptions) parsePosition(posStr string) (uint32, error) {
	best := s.repo.BestBlock().Number()
	if posStr == "" {
		return best + 1, nil
	}
	var num uint32
	if len(posStr) == 66 || len(posStr) == 64 {
		id, err := rentnet.ParseBytes32(posStr)
		if err != nil {
			return 0, utils.BadRequest(errors.WithMessage(err, "pos"))
		}
		num = block.Number(id)
		if got, err := s.repo.GetBlockID(num); err != nil || got != id {
			return 0, utils.BadRequest(errors.New("pos: not found"))
		}
	} else {
		n, err := strconv.ParseUint(posStr, 0, 32)
		if err != nil {
			return 0, utils.BadRequest(errors.WithMessage(err, "pos"))
		}
		num = uint32(n)
	}
	if num > best+1 {
		return 0, utils.BadRequest(errors.New("pos: out of range"))
	}
	if best >= num && best-num > s.backtraceLimit {
		return 0, utils.Forbidden(errors.New("pos: backtrace limit exceeded"))
	}
	return num, nil
}

func (s *Subscriptions) handleBlockReader(_ http.ResponseWriter, req *http.Request) (msgReader, error) {
	pos, err := s.parsePosition(req.URL.Query().Get("pos"))
	if err != nil {
		return nil, err
	}
	return newBlockReader(s.repo, pos, s.blockCache), nil
}

func (s *Subscriptions) handleEventReader(_ http.ResponseWriter, req *http.Request) (msgReader, error) {
	query := req.URL.Query()
	pos, err := s.parsePosition(query.Get("pos"))
	if err != nil {
		return nil, err
	}
	criteria := &logdb.EventCriteria{
		Module:  query.Get("module"),
		Name:    query.Get("name"),
		Subject: query.Get("subject"),
	}
	if acc := query.Get("account"); acc != "" {
		addr, err := rentnet.ParseAddress(acc)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "account"))
		}
		criteria.Account = addr
	}
	return newEventReader(s.repo, s.logDB, pos, criteria), nil
}

func (s *Subscriptions) handleSubject(w http.ResponseWriter, req *http.Request) error {
	s.wg.Add(1)
	defer s.wg.Done()

	var (
		reader msgReader
		err    error
	)
	switch mux.Vars(req)["subject"] {
	case "block":
		reader, err = s.handleBlockReader(w, req)
	case "event":
		if s.logDB == nil {
			return utils.Forbidden(errors.New("event log disabled"))
		}
		reader, err = s.handleEventReader(w, req)
	default:
		return utils.HTTPError(errors.New("not found"), http.StatusNotFound)
	}
	if err != nil {
		return err
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}

	closed := make(chan struct{})
	// start read loop to handle close event
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug("websocket read", "err", err)
				return
			}
		}
	}()

	if err := s.pipe(conn, reader, closed); err != nil {
		logger.Debug("websocket pipe", "err", err)
	}
	conn.Close()
	return nil
}

func (s *Subscriptions) pipe(conn *websocket.Conn, reader msgReader, closed chan struct{}) error {
	newBlock := make(chan *block.Block, 1)
	sub := s.repo.SubscribeNewBlock(newBlock)
	defer sub.Unsubscribe()

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		msgs, hasMsg, err := reader.Read()
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
		}
		if hasMsg {
			// drain remaining blocks before waiting
			continue
		}

		select {
		case <-s.done:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			return conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "service shutdown"))
		case <-closed:
			return nil
		case err := <-sub.Err():
			return err
		case <-newBlock:
		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

// Close stops all subscriptions and waits for hijacked connections to end.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{subject}").
		Methods(http.MethodGet).
		Name("WS /subscriptions/{subject}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubject))
}
