package voipcalls

import (
	"fmt"
	"strings"
)

// CorrelationKey renders the key a record is matched by, prefixed with its
// protocol family. ISUP point codes are ordered so both directions of a
// circuit give the same key.
func CorrelationKey(c *CallRecord) string {
	fam := c.Protocol.family().String()
	switch info := c.Info.(type) {
	case *SIPInfo:
		return fam + "/" + info.CallID
	case *ISUPInfo:
		lo, hi := info.OPC, info.DPC
		if lo > hi {
			lo, hi = hi, lo
		}
		return fmt.Sprintf("%s/%d-%d-%d-%d", fam, info.CIC, lo, hi, info.NI)
	case *H323Info:
		if info.GUID.IsZero() {
			return fmt.Sprintf("%s/ras-%d", fam, info.RequestSeqNum)
		}
		return fmt.Sprintf("%s/%x", fam, info.GUID[:])
	case *MGCPInfo:
		return fam + "/" + strings.ToLower(info.EndpointID)
	case *ACISDNInfo:
		return fmt.Sprintf("%s/%d-%d", fam, info.Trunk, info.CRV)
	case *ACCASInfo:
		return fmt.Sprintf("%s/%d-%d", fam, info.Trunk, info.BChannel)
	case *T38Info:
		a, b := info.Src.String(), info.Dst.String()
		if a > b {
			a, b = b, a
		}
		return fam + "/" + a + "-" + b
	case *SCCPInfo:
		return fmt.Sprintf("%s/%d", fam, info.Assoc)
	case *H248Info:
		return fmt.Sprintf("%s/%d-%08x", fam, info.Assoc, info.ContextID)
	case *UNISTIMInfo:
		return fmt.Sprintf("%s/%x-%s-%s", fam, info.TermID, info.Phone, info.Server)
	case *SkinnyInfo:
		return fmt.Sprintf("%s/%d", fam, info.CallID)
	case *IAX2Info:
		return fmt.Sprintf("%s/%d", fam, info.SCallNo)
	case *CommonInfo:
		return fam + "/" + info.ProtocolName + "/" + info.CallID
	}
	return fmt.Sprintf("%s/#%d", fam, c.CallNum)
}
