package storage

import (
	"encoding/json"
	"errors"

	"darwin/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeEngineSnapshot(s model.EngineSnapshot) ([]byte, error) {
	return json.Marshal(s)
}

func DecodeEngineSnapshot(data []byte) (model.EngineSnapshot, error) {
	var snapshot model.EngineSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return model.EngineSnapshot{}, err
	}
	if err := checkVersion(snapshot.VersionedRecord); err != nil {
		return model.EngineSnapshot{}, err
	}
	return snapshot, nil
}

func EncodeRunRecord(r model.RunRecord) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeRunRecord(data []byte) (model.RunRecord, error) {
	var record model.RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return model.RunRecord{}, err
	}
	if err := checkVersion(record.VersionedRecord); err != nil {
		return model.RunRecord{}, err
	}
	return record, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
