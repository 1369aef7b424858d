package discovery

import (
	"fmt"
	"strconv"
	"strings"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeWallTXT creates TXT records for wall discovery.
func EncodeWallTXT(info *WallInfo) TXTRecordMap {
	txt := make(TXTRecordMap)

	// Required fields
	txt[TXTKeyWidth] = strconv.Itoa(info.PanelWidth)
	txt[TXTKeyHeight] = strconv.Itoa(info.PanelHeight)
	txt[TXTKeyPanels] = strconv.Itoa(info.PanelCount)
	txt[TXTKeyVersion] = strconv.Itoa(info.Version)

	// Optional fields
	if info.DisplayName != "" {
		txt[TXTKeyName] = info.DisplayName
	}

	return txt
}

// DecodeWallTXT parses TXT records from wall discovery.
func DecodeWallTXT(txt TXTRecordMap) (*WallInfo, error) {
	info := &WallInfo{}

	var err error
	if info.PanelWidth, err = requiredDimension(txt, TXTKeyWidth); err != nil {
		return nil, err
	}
	if info.PanelHeight, err = requiredDimension(txt, TXTKeyHeight); err != nil {
		return nil, err
	}
	if info.PanelCount, err = requiredDimension(txt, TXTKeyPanels); err != nil {
		return nil, err
	}

	// Version (required)
	vStr, ok := txt[TXTKeyVersion]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyVersion)
	}
	v, err := strconv.Atoi(vStr)
	if err != nil || v < 1 {
		return nil, fmt.Errorf("%w: bad version %q", ErrInvalidTXTRecord, vStr)
	}
	info.Version = v

	// Optional fields
	info.DisplayName = txt[TXTKeyName]

	return info, nil
}

// requiredDimension reads a required positive integer TXT value
// bounded by MaxPanelDimension.
func requiredDimension(txt TXTRecordMap, key string) (int, error) {
	s, ok := txt[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingRequired, key)
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 || v > MaxPanelDimension {
		return 0, fmt.Errorf("%w: bad %s value %q", ErrInvalidTXTRecord, key, s)
	}
	return v, nil
}

// TXTRecordsToStrings converts a TXTRecordMap to a slice of "key=value" strings.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, fmt.Sprintf("%s=%s", k, v))
	}
	return result
}

// StringsToTXTRecords parses a slice of "key=value" strings into a TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		parts := strings.SplitN(s, "=", 2)
		if len(parts) == 2 {
			txt[parts[0]] = parts[1]
		} else if len(parts) == 1 && parts[0] != "" {
			// Key without value (boolean flag)
			txt[parts[0]] = ""
		}
	}
	return txt
}

// ValidateInstanceName checks if an instance name is valid for mDNS.
func ValidateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInstanceNameTooLong)
	}
	if len(name) > MaxInstanceNameLen {
		return ErrInstanceNameTooLong
	}
	return nil
}
