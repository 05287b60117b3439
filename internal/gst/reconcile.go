package gst

import "github.com/shopspring/decimal"

// Liability is the derived tax position of one filing period.
type Liability struct {
	OutputCGST   decimal.Decimal `json:"output_cgst"`
	OutputSGST   decimal.Decimal `json:"output_sgst"`
	OutputIGST   decimal.Decimal `json:"output_igst"`
	InputCGST    decimal.Decimal `json:"input_cgst"`
	InputSGST    decimal.Decimal `json:"input_sgst"`
	InputIGST    decimal.Decimal `json:"input_igst"`
	NetCGST      decimal.Decimal `json:"net_cgst"`
	NetSGST      decimal.Decimal `json:"net_sgst"`
	NetIGST      decimal.Decimal `json:"net_igst"`
	TotalPayable decimal.Decimal `json:"total_payable"`
	ITCAvailable decimal.Decimal `json:"itc_available"`
}

// OutputTax returns the total output tax across heads.
func (l Liability) OutputTax() decimal.Decimal {
	return l.OutputCGST.Add(l.OutputSGST).Add(l.OutputIGST)
}

// Reconcile nets output tax from invoices against input tax credit from purchases.
// Each head is netted on its own and floored at zero; excess credit in one head
// is never applied to another.
func Reconcile(outputs, inputs []Totals) Liability {
	out := sumTax(outputs)
	in := sumTax(inputs)

	l := Liability{
		OutputCGST: out.CGST,
		OutputSGST: out.SGST,
		OutputIGST: out.IGST,
		InputCGST:  in.CGST,
		InputSGST:  in.SGST,
		InputIGST:  in.IGST,
		NetCGST:    MaxZero(out.CGST.Sub(in.CGST)),
		NetSGST:    MaxZero(out.SGST.Sub(in.SGST)),
		NetIGST:    MaxZero(out.IGST.Sub(in.IGST)),
	}
	l.TotalPayable = l.NetCGST.Add(l.NetSGST).Add(l.NetIGST)
	l.ITCAvailable = in.CGST.Add(in.SGST).Add(in.IGST)
	return l
}

func sumTax(docs []Totals) Totals {
	t := ZeroTotals()
	for i := range docs {
		t.CGST = t.CGST.Add(docs[i].CGST)
		t.SGST = t.SGST.Add(docs[i].SGST)
		t.IGST = t.IGST.Add(docs[i].IGST)
	}
	return t
}

// Add sums two liabilities head by head. Used to total monthly positions over a
// quarter or year; each month stays netted on its own.
func (l Liability) Add(o Liability) Liability {
	return Liability{
		OutputCGST:   l.OutputCGST.Add(o.OutputCGST),
		OutputSGST:   l.OutputSGST.Add(o.OutputSGST),
		OutputIGST:   l.OutputIGST.Add(o.OutputIGST),
		InputCGST:    l.InputCGST.Add(o.InputCGST),
		InputSGST:    l.InputSGST.Add(o.InputSGST),
		InputIGST:    l.InputIGST.Add(o.InputIGST),
		NetCGST:      l.NetCGST.Add(o.NetCGST),
		NetSGST:      l.NetSGST.Add(o.NetSGST),
		NetIGST:      l.NetIGST.Add(o.NetIGST),
		TotalPayable: l.TotalPayable.Add(o.TotalPayable),
		ITCAvailable: l.ITCAvailable.Add(o.ITCAvailable),
	}
}
