package acs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	aliasTrackingSummary = "ACS_Trackingsummary"
	aliasCODSettlements  = "ACS_COD_Settlements"
)

type request struct {
	Alias      string          `json:"ACSAlias"`
	Parameters inputParameters `json:"ACSInputParameters"`
}

type inputParameters struct {
	CompanyID       string  `json:"Company_ID"`
	CompanyPassword string  `json:"Company_Password"`
	UserID          string  `json:"User_ID"`
	UserPassword    string  `json:"User_Password"`
	Language        *string `json:"Language"`
	VoucherNo       string  `json:"Voucher_No,omitempty"`
	SettlementDate  string  `json:"Settlement_Date,omitempty"`
}

type response[T any] struct {
	HasError     bool   `json:"ACSExecution_HasError"`
	ErrorMessage string `json:"ACSExecutionErrorMessage"`
	Output       struct {
		Table struct {
			Data []T `json:"Table_Data"`
		} `json:"ACSTableOutput"`
	} `json:"ACSOutputResponce"`
}

func (r response[T]) rows() ([]T, error) {
	if r.HasError {
		return nil, fmt.Errorf("execution error: %s", r.ErrorMessage)
	}
	return r.Output.Table.Data, nil
}

type trackingRow struct {
	VoucherNo    flexString `json:"voucher_no"`
	DeliveryFlag flexInt    `json:"delivery_flag"`
	ReturnedFlag flexInt    `json:"returned_flag"`
	DeliveryDate string     `json:"delivery_date"`
	Consignee    string     `json:"consignee"`
	ErrorMessage string     `json:"Error_Message"`
}

type settlementRow struct {
	VoucherNo      flexString `json:"voucher_no"`
	CODAmount      float64    `json:"cod_amount"`
	SettlementDate string     `json:"settlement_date"`
	ErrorMessage   string     `json:"Error_Message"`
}

// flexString accepts JSON strings and numbers; ACS returns voucher numbers as
// either depending on the alias.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexString(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("voucher number must be a string or a number: %w", err)
	}
	*s = flexString(num.String())
	return nil
}

// flexInt accepts numbers, numeric strings and booleans for the ACS flags.
type flexInt int

func (i *flexInt) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "null", "false":
		*i = 0
		return nil
	case "true":
		*i = 1
		return nil
	}

	var num int
	if err := json.Unmarshal(data, &num); err == nil {
		*i = flexInt(num)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("flag must be a number: %w", err)
	}
	if str == "" {
		*i = 0
		return nil
	}
	num, err := strconv.Atoi(str)
	if err != nil {
		return fmt.Errorf("flag must be a number: %w", err)
	}
	*i = flexInt(num)
	return nil
}
