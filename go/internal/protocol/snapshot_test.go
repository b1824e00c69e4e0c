package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInbound(t *testing.T) {
	in, err := DecodeInbound([]byte(`{"eventName":"ping"}`))
	require.NoError(t, err)
	assert.Equal(t, "ping", in.EventName)

	_, err = DecodeInbound([]byte(`{"data":"x"}`))
	assert.ErrorIs(t, err, ErrProtocol, "missing eventName fails closed")

	_, err = DecodeInbound([]byte(`not json`))
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestDataString(t *testing.T) {
	in, err := DecodeInbound([]byte(`{"eventName":"error","data":"room is full"}`))
	require.NoError(t, err)

	reason, err := in.DataString()
	require.NoError(t, err)
	assert.Equal(t, "room is full", reason)

	in, err = DecodeInbound([]byte(`{"eventName":"error","data":{"nested":true}}`))
	require.NoError(t, err)
	_, err = in.DataString()
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestDecodeSnapshotLobby(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{
		"state":"lobby","room":"QUIZ","name":"alice","host":true,
		"players":["alice","bob"]
	}`))
	require.NoError(t, err)

	assert.Equal(t, TagLobby, snap.Tag)
	require.NotNil(t, snap.Lobby)
	assert.Equal(t, "QUIZ", snap.Lobby.Room)
	assert.Equal(t, "alice", snap.Lobby.Name)
	assert.True(t, snap.Lobby.Host)
	assert.Equal(t, []string{"alice", "bob"}, snap.Lobby.Players)

	_, err = DecodeSnapshot([]byte(`{"state":"lobby","room":"QUIZ","name":"alice"}`))
	assert.ErrorIs(t, err, ErrProtocol, "lobby without players fails closed")
}

func TestDecodeSnapshotCountdown(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{"state":"countdown","timeout":5}`))
	require.NoError(t, err)
	require.NotNil(t, snap.Countdown)
	assert.Equal(t, 5, snap.Countdown.Timeout)

	_, err = DecodeSnapshot([]byte(`{"state":"countdown"}`))
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestDecodeSnapshotQuestion(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{
		"state":"question","question":"Capital of France?",
		"answers":["Paris","Lyon"],"timeout":20,"answered":false,"pending":true
	}`))
	require.NoError(t, err)

	require.NotNil(t, snap.Question)
	assert.Equal(t, "Capital of France?", snap.Question.Question)
	assert.Equal(t, 20, snap.Question.Timeout)
	assert.True(t, snap.Question.Pending)
	assert.False(t, snap.Question.Answered)

	for _, payload := range []string{
		`{"state":"question","answers":["a"],"timeout":5}`,
		`{"state":"question","question":"q","timeout":5}`,
		`{"state":"question","question":"q","answers":["a"]}`,
	} {
		_, err := DecodeSnapshot([]byte(payload))
		assert.ErrorIs(t, err, ErrProtocol, payload)
	}
}

func TestDecodeSnapshotConfirmResultsSharesQuestionShape(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{
		"state":"confirmresults","question":"q?","answers":["a","b"],
		"timeout":0,"host":true
	}`))
	require.NoError(t, err)

	assert.Equal(t, TagConfirmResults, snap.Tag)
	require.NotNil(t, snap.Question)
	assert.True(t, snap.Question.Host)
}

func TestDecodeSnapshotResultsVoteTuples(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{
		"state":"results","question":"q?","answers":["a","b"],
		"results":[
			["alice",1,10],
			["bob",0,0],
			["carol",null,0],
			["dave","x",0],
			["eve",1.5,0],
			["mallory",0,-2]
		],
		"host":true,"finalnext":true
	}`))
	require.NoError(t, err)

	require.NotNil(t, snap.Results)
	assert.True(t, snap.Results.FinalNext)
	require.Len(t, snap.Results.Votes, 6)

	votes := snap.Results.Votes
	assert.Equal(t, VoteRecord{Voter: "alice", Answer: 1, Delta: 10}, votes[0])
	assert.Equal(t, VoteRecord{Voter: "bob", Answer: 0, Delta: 0}, votes[1])
	assert.Equal(t, NoAnswer, votes[2].Answer, "null index is no answer")
	assert.Equal(t, NoAnswer, votes[3].Answer, "non-numeric index is no answer")
	assert.Equal(t, NoAnswer, votes[4].Answer, "fractional index is no answer")
	assert.Equal(t, VoteRecord{Voter: "mallory", Answer: 0, Delta: -2}, votes[5])
}

func TestDecodeSnapshotResultsMalformed(t *testing.T) {
	for _, payload := range []string{
		`{"state":"results","question":"q","results":[]}`,
		`{"state":"results","question":"q","answers":["a"]}`,
		`{"state":"results","question":"q","answers":["a"],"results":[[]]}`,
		`{"state":"results","question":"q","answers":["a"],"results":"nope"}`,
	} {
		_, err := DecodeSnapshot([]byte(payload))
		assert.ErrorIs(t, err, ErrProtocol, payload)
	}
}

func TestDecodeSnapshotFinal(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{
		"state":"final","results":[["alice",120],["bob",90]],"host":true
	}`))
	require.NoError(t, err)

	require.NotNil(t, snap.Final)
	assert.True(t, snap.Final.Host)
	require.Len(t, snap.Final.Scores, 2)
	assert.Equal(t, PlayerScore{Name: "alice", Score: 120}, snap.Final.Scores[0])
	assert.Equal(t, PlayerScore{Name: "bob", Score: 90}, snap.Final.Scores[1])

	_, err = DecodeSnapshot([]byte(`{"state":"final"}`))
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestDecodeSnapshotUnknownTagKeptTagOnly(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{"state":"intermission","whatever":1}`))
	require.NoError(t, err, "unknown tags must not kill the connection")

	assert.Equal(t, SnapshotTag("intermission"), snap.Tag)
	assert.Nil(t, snap.Lobby)
	assert.Nil(t, snap.Question)
	assert.Nil(t, snap.Results)
	assert.Nil(t, snap.Final)
}

func TestDecodeSnapshotMissingTag(t *testing.T) {
	_, err := DecodeSnapshot([]byte(`{"timeout":5}`))
	assert.ErrorIs(t, err, ErrProtocol)

	_, err = DecodeSnapshot([]byte(`garbage`))
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestOutboundEncoding(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want string
	}{
		{"login", Login("alice", "QUIZ"), `{"event":"login","name":"alice","room":"QUIZ"}`},
		{"answer", Answer(0), `{"event":"answer","id":0}`},
		{"startGame", StartGame(), `{"event":"startGame"}`},
		{"confirm", ConfirmResults(), `{"event":"doConfirmResults"}`},
		{"completeResults", CompleteResults(), `{"event":"doCompleteResults"}`},
		{"completeFinal", CompleteFinal(), `{"event":"doCompleteFinal"}`},
		{"endGame", EndGame(), `{"event":"endGame"}`},
		{"logout", Logout(), `{"event":"logout"}`},
		{"pong", Pong(), `{"event":"pong"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.v)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}
