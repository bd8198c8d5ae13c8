package httpserver

import (
	"net/http"

	"restofront/internal/domain"
	checkoutsvc "restofront/internal/service/checkout"

	"github.com/gin-gonic/gin"
)

func (a *api) beginCheckout(c *gin.Context) {
	cl := a.hub.get(c.Request.Context(), ownerID(c))
	cl.mu.Lock()
	if cl.checkout != nil && !cl.checkout.Step().IsTerminal() {
		cl.mu.Unlock()
		c.JSON(http.StatusConflict, gin.H{"error": "checkout already in progress"})
		return
	}
	sess, err := checkoutsvc.Begin(cl.cart, cl.sess, a.backend, a.logger)
	if err != nil {
		cl.mu.Unlock()
		respondErr(c, err)
		return
	}
	cl.checkout = sess
	cl.mu.Unlock()

	c.JSON(http.StatusCreated, sess.View())
}

func (a *api) getCheckout(c *gin.Context) {
	sess, ok := a.activeCheckout(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.View())
}

func (a *api) cancelCheckout(c *gin.Context) {
	cl := a.hub.get(c.Request.Context(), ownerID(c))
	cl.mu.Lock()
	cl.checkout = nil
	cl.mu.Unlock()
	c.Status(http.StatusNoContent)
}

type deliveryInfoRequest struct {
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Notes   string `json:"notes"`
}

func (a *api) submitInfo(c *gin.Context) {
	var req deliveryInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	sess, ok := a.activeCheckout(c)
	if !ok {
		return
	}
	if err := sess.SubmitInfo(c.Request.Context(), req.Address, req.Phone, req.Notes); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.View())
}

type paymentMethodRequest struct {
	Method domain.PaymentMethod `json:"method"`
}

func (a *api) choosePayment(c *gin.Context) {
	var req paymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	sess, ok := a.activeCheckout(c)
	if !ok {
		return
	}
	if err := sess.ChoosePayment(c.Request.Context(), req.Method); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.View())
}

type mobileMoneyRequest struct {
	Operator domain.MobileMoneyOperator `json:"operateur"`
	Phone    string                     `json:"telephone"`
}

func (a *api) submitMobileMoney(c *gin.Context) {
	var req mobileMoneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	sess, ok := a.activeCheckout(c)
	if !ok {
		return
	}
	if err := sess.SubmitMobileMoney(c.Request.Context(), req.Operator, req.Phone); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.View())
}

func (a *api) cancelMobileMoney(c *gin.Context) {
	sess, ok := a.activeCheckout(c)
	if !ok {
		return
	}
	if err := sess.CancelMobileMoney(); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.View())
}

func (a *api) confirmCard(c *gin.Context) {
	sess, ok := a.activeCheckout(c)
	if !ok {
		return
	}
	if err := sess.ConfirmCardPayment(c.Request.Context()); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.View())
}

func (a *api) cancelCard(c *gin.Context) {
	sess, ok := a.activeCheckout(c)
	if !ok {
		return
	}
	if err := sess.CancelCardPayment(); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.View())
}

func (a *api) submitBankInfo(c *gin.Context) {
	var info domain.BankInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	sess, ok := a.activeCheckout(c)
	if !ok {
		return
	}
	if err := sess.SubmitBankInfo(c.Request.Context(), info); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.View())
}

func (a *api) skipBankInfo(c *gin.Context) {
	sess, ok := a.activeCheckout(c)
	if !ok {
		return
	}
	if err := sess.SkipBankInfo(); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, sess.View())
}

func (a *api) getInvoice(c *gin.Context) {
	cl := a.hub.get(c.Request.Context(), ownerID(c))
	cl.mu.Lock()
	sess := cl.checkout
	token := cl.sess.Token()
	cl.mu.Unlock()
	if sess == nil || sess.OrderID() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active checkout"})
		return
	}
	invoice, err := a.backend.GetInvoice(c.Request.Context(), token, sess.OrderID())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"facture": invoice})
}

// returnToMenu exits a finished checkout: the cart is cleared and the
// checkout session is dropped.
func (a *api) returnToMenu(c *gin.Context) {
	cl := a.hub.get(c.Request.Context(), ownerID(c))
	cl.mu.Lock()
	sess := cl.checkout
	cl.mu.Unlock()
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active checkout"})
		return
	}
	if err := sess.ReturnToMenu(c.Request.Context()); err != nil {
		respondErr(c, err)
		return
	}
	cl.mu.Lock()
	cl.checkout = nil
	cl.mu.Unlock()
	c.Status(http.StatusNoContent)
}

func (a *api) activeCheckout(c *gin.Context) (*checkoutsvc.Session, bool) {
	cl := a.hub.get(c.Request.Context(), ownerID(c))
	cl.mu.Lock()
	sess := cl.checkout
	cl.mu.Unlock()
	if sess == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active checkout"})
		return nil, false
	}
	return sess, true
}
