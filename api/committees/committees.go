// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package committees

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/rentnet/rentnet/api/utils"
	"github.com/rentnet/rentnet/builtin"
	"github.com/rentnet/rentnet/builtin/committee"
	"github.com/rentnet/rentnet/builtin/verification"
	"github.com/rentnet/rentnet/chain"
	"github.com/rentnet/rentnet/rentnet"
)

var listOrder = []committee.Status{committee.Normal, committee.Chill, committee.WaitingBoxPubkey, committee.Fulfilling}

type Committees struct {
	repo *chain.Repository
}

func New(repo *chain.Repository) *Committees {
	return &Committees{repo}
}

func (c *Committees) handleList(w http.ResponseWriter, req *http.Request) error {
	statuses := listOrder
	if name := req.URL.Query().Get("status"); name != "" {
		status, ok := committee.ParseStatus(name)
		if !ok {
			return utils.BadRequest(errors.New("status: should be normal, chill, waiting or fulfilling"))
		}
		statuses = []committee.Status{status}
	}

	modules, _ := utils.BestModules(c.repo)
	out := []*Listed{}
	for _, status := range statuses {
		members, err := modules.Committee.List(status)
		if err != nil {
			return err
		}
		for _, m := range members {
			out = append(out, &Listed{m, status.String()})
		}
	}
	return utils.WriteJSON(w, out)
}

func (c *Committees) getMember(modules *builtin.Modules, who rentnet.Address) (*Member, error) {
	status, err := modules.Committee.StatusOf(who)
	if err != nil {
		return nil, err
	}
	stake, err := modules.Committee.Stake(who)
	if err != nil {
		return nil, err
	}
	boxPubkey, err := modules.Committee.BoxPubkey(who)
	if err != nil {
		return nil, err
	}
	machines, err := modules.Verification.Stages(who, verification.MachineOnline)
	if err != nil {
		return nil, err
	}
	reports, err := modules.Verification.Stages(who, verification.FaultReport)
	if err != nil {
		return nil, err
	}
	return &Member{
		Address: who,
		Status:  status.String(),
		Stake: Stake{
			Staked:         stake.Staked,
			Used:           stake.Used,
			Free:           stake.Free(),
			CanClaimReward: stake.CanClaimReward,
			ClaimedReward:  stake.ClaimedReward,
		},
		BoxPubkey: boxPubkey,
		Machines:  convertStages(machines),
		Reports:   convertStages(reports),
	}, nil
}

func (c *Committees) handleGetMember(w http.ResponseWriter, req *http.Request) error {
	who, err := rentnet.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}
	modules, _ := utils.BestModules(c.repo)
	member, err := c.getMember(modules, *who)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, member)
}

func (c *Committees) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /committees").
		HandlerFunc(utils.WrapHandlerFunc(c.handleList))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /committees/{address}").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetMember))
}
